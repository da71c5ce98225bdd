package task

import (
	"github.com/ohsu-comp-bio/yatamana/util/fsutil"
)

// FileTask is a task producing a file. It is finished once the file exists.
type FileTask struct {
	*Base
	OutFilename string
}

// NewFileTask returns a task of the given class writing out.
func NewFileTask(class, out string, command ...string) *FileTask {
	return &FileTask{Base: New(class, command...), OutFilename: out}
}

// IsFinished reports whether OutFilename exists.
func (f *FileTask) IsFinished() bool {
	return f.OutFilename != "" && fsutil.Exists(f.OutFilename)
}

// RenderRunner fills the runner template.
func (f *FileTask) RenderRunner(template string) (string, error) {
	return renderRunner(f, template)
}
