package errors

import "fmt"

// Error constructors for the failures changelogen reports to users.

// InvalidVersion creates an error for a version flag that is neither a bump
// keyword nor a semantic version.
func InvalidVersion(input string, err error) *CLIError {
	e := WrapWithMessage(err, Argument,
		fmt.Sprintf("cannot use %q as the next version", input),
		"Use a bump keyword: major, minor, patch, premajor, preminor, prepatch, prerelease or auto",
		"Or pass a full version such as v1.2.3",
		"Use 'unreleased' to collect changes without a version",
	)
	e.Usage = "changelogen generate --version <keyword|version>"
	return e
}

// VersionExists creates an error when the resolved version is already tagged.
func VersionExists(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"the resolved version is already tagged",
		"Pick a different --version",
		"List existing tags with: git tag --list",
	)
}

// NotARepository creates an error when the working directory is not in a git repository.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("not a git repository: %s", path),
		"Run changelogen from inside a git working tree",
		"Or pass the repository path with --dir",
	)
}

// HistoryReadError creates an error when tags or commits cannot be read.
func HistoryReadError(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"failed to read repository history",
		"Check that HEAD points to a commit",
		"Shallow clones need the tag history: git fetch --tags --unshallow",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config file: %s", path),
		"Check the file for JSON or YAML syntax errors",
		"Regenerate a commented template with: changelogen init --force",
	)
}

// ConfigExists creates an error when init would overwrite a config file.
func ConfigExists(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file already exists: %s", path),
		"Use --force to overwrite it",
	)
}

// TemplateError creates an error for a template that does not parse.
func TemplateError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid changelog template",
		"Templates support {{name}}, {{#name}}...{{/name}} and {{^name}}...{{/name}}",
		"Check versionTemplate, scopeTemplate, prefixTemplate and commitTemplate in the config",
	)
}

// FileReadError creates an error when the changelog cannot be read.
func FileReadError(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot read file: %s", path),
		"Check file permissions: ls -la "+path,
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// TagCreateError creates an error when the release tag cannot be created.
func TagCreateError(version string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to create tag %s", version),
		"The changelog was written; create the tag manually with: git tag "+version,
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'changelogen <command> --help' to see valid options",
	)
}
