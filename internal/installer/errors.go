package installer

import "errors"

var (
	// ErrSkillExists is returned when the canonical directory for a name is
	// already taken.
	ErrSkillExists = errors.New("skill already exists")

	// ErrSourceNotFound is returned when a local source path does not exist.
	ErrSourceNotFound = errors.New("source path not found")

	// ErrSkillNotFound is returned when no registry record has the given ID.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrCentralPathMissing is returned when a record's canonical directory
	// has disappeared.
	ErrCentralPathMissing = errors.New("central path not found")

	// ErrUnsupportedSourceType is returned when updating a record whose
	// source type is neither git nor local.
	ErrUnsupportedSourceType = errors.New("unsupported source type")

	// ErrSubpathNotFound is returned when a repository has no such subpath.
	ErrSubpathNotFound = errors.New("subpath not found in repository")

	// ErrMultipleSkills is returned when a repository root holds several
	// skills and no subpath was chosen.
	ErrMultipleSkills = errors.New("repository contains multiple skills; choose one")

	// ErrToolNotFound is returned for unknown tool keys.
	ErrToolNotFound = errors.New("unknown tool")

	// ErrToolNotInstalled is returned when a tool's directory is absent.
	ErrToolNotInstalled = errors.New("tool not installed")

	// ErrTargetNotFound is returned when a skill is not synced to a tool.
	ErrTargetNotFound = errors.New("skill is not synced to this tool")

	// ErrInvalidName is returned for names that cannot be a directory name.
	ErrInvalidName = errors.New("invalid skill name")
)
