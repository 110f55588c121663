package task

import "errors"

var (
	// ErrInvalidDate indicates a date that does not match DD-MM-YYYY.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRule indicates an unrecognized recurrence pattern.
	ErrInvalidRule = errors.New("invalid recurrence rule")

	// ErrInvalidText indicates task text that would break the line
	// grammar.
	ErrInvalidText = errors.New("invalid task text")

	// ErrTaskNotFound indicates no task with the requested ID exists.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSectionNotFound indicates a missing section path.
	ErrSectionNotFound = errors.New("section not found")

	// ErrNoDailySection indicates sync was asked for a day that has no
	// daily section.
	ErrNoDailySection = errors.New("no daily section for date")

	// ErrIDRequired indicates a command was called without a task ID.
	ErrIDRequired = errors.New("task id required")

	// ErrNoEditorFound indicates no usable editor could be resolved.
	ErrNoEditorFound = errors.New("no editor found (set editor in config or $EDITOR)")

	// ErrConfigInvalid wraps config file parse/validation failures.
	ErrConfigInvalid = errors.New("invalid config file")

	// ErrConfigFileNotFound indicates an explicitly requested config
	// file does not exist.
	ErrConfigFileNotFound = errors.New("config file not found")

	// ErrConfigFileRead indicates a config file exists but could not be
	// read.
	ErrConfigFileRead = errors.New("cannot read config file")

	// ErrTaskFileEmpty indicates task_file was explicitly set to "".
	ErrTaskFileEmpty = errors.New("task_file cannot be empty")

	// ErrInvalidIconSet indicates an unknown icon_set value.
	ErrInvalidIconSet = errors.New("invalid icon_set (default|dots|check|simple)")

	// ErrInvalidArchivePolicy indicates an unknown archive_policy value.
	ErrInvalidArchivePolicy = errors.New("invalid archive_policy (full|headers)")

	// ErrFlagRequiresArg indicates a global flag was given without its
	// value.
	ErrFlagRequiresArg = errors.New("flag requires an argument")

	// ErrUnknownFlag indicates an unrecognized global flag.
	ErrUnknownFlag = errors.New("unknown flag")
)
