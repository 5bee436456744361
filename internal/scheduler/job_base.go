package scheduler

import "github.com/rs/zerolog"

// JobBase carries the logger shared by every job.
// Jobs embed it and receive a component logger through SetLogger.
type JobBase struct {
	log zerolog.Logger
}

// SetLogger sets the logger for the job
func (j *JobBase) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Logger returns the job logger (a no-op logger until SetLogger is called)
func (j *JobBase) Logger() zerolog.Logger {
	return j.log
}

func newJobBase() JobBase {
	return JobBase{log: zerolog.Nop()}
}
