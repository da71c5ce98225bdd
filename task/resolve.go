package task

import (
	"github.com/ohsu-comp-bio/yatamana/walltime"
)

// jobIDPlaceholder is left in log paths because the job id is only known
// after submission; backends replace it with their own variable.
const jobIDPlaceholder = "%(job_id)s"

type resolveContext struct {
	ctx     *Context
	name    string
	hasName bool
}

// logValues are the values available to log path format strings.
func (rc *resolveContext) logValues() map[string]string {
	vals := make(map[string]string, len(rc.ctx.values())+2)
	for k, v := range rc.ctx.values() {
		vals[k] = v
	}
	if rc.hasName {
		vals["job_name"] = rc.name
	}
	vals["job_id"] = jobIDPlaceholder
	return vals
}

// resolveValue normalizes a single option. A nil result drops the option.
func resolveValue(v Value, rc *resolveContext) (Value, error) {
	switch x := v.(type) {
	case CurrentWorkingDirectory:
		return CurrentWorkingDirectory(true), nil

	case LogFilename:
		s, err := Interpolate(string(x), rc.logValues())
		if err != nil {
			return nil, err
		}
		return LogFilename(expandEnv(s)), nil

	case LogDirectory:
		s, err := Interpolate(string(x), rc.logValues())
		if err != nil {
			return nil, err
		}
		return LogDirectory(expandEnv(s)), nil

	case WalltimeSpec:
		secs, err := walltime.Parse(string(x))
		if err != nil {
			return nil, err
		}
		return Walltime(secs), nil

	case Dependencies:
		if len(x) == 0 {
			return nil, nil
		}
		ids := make(DependencyIDs, 0, len(x))
		for _, key := range x {
			if rc.ctx == nil || rc.ctx.Jobs == nil {
				return nil, &UnresolvedDependencyError{key}
			}
			id, ok := rc.ctx.Jobs.JobIDOf(key)
			if !ok {
				return nil, &UnresolvedDependencyError{key}
			}
			ids = append(ids, id)
		}
		return ids, nil

	case DependencyIDs:
		if len(x) == 0 {
			return nil, nil
		}
		return x.clone(), nil
	}
	return v.clone(), nil
}
