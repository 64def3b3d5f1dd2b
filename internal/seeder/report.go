package seeder

// Op classifies a single step against the remote project.
type Op string

const (
	OpList   Op = "list"
	OpDelete Op = "delete"
	OpCreate Op = "create"
	OpImport Op = "import"
	OpLink   Op = "link"
)

// Outcome records the result of one step. Err is nil on success.
type Outcome struct {
	Op         Op
	Collection string
	Name       string
	Err        error
}

// Warning reports whether a failed outcome is tolerated noise (deletes,
// links, image imports) rather than a phase failure (listings, creates).
func (o Outcome) Warning() bool {
	if o.Err == nil {
		return false
	}
	return o.Op == OpDelete || o.Op == OpImport || o.Op == OpLink
}

// Report accumulates per-step outcomes across one seed run. Failures never
// abort the run; they are collected here so callers and tests can assert on
// aggregate results instead of log text.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failures returns the failed outcomes that count as errors.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil && !o.Warning() {
			out = append(out, o)
		}
	}
	return out
}

// Warnings returns the failed outcomes that count as warnings.
func (r *Report) Warnings() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Warning() {
			out = append(out, o)
		}
	}
	return out
}

// Deleted counts records and files removed during the reset phase.
func (r *Report) Deleted() int { return r.count(OpDelete) }

// Created counts category, customization and menu item records created.
func (r *Report) Created() int { return r.count(OpCreate) }

// Uploaded counts images imported into the bucket.
func (r *Report) Uploaded() int { return r.count(OpImport) }

// Linked counts menu-customization join records created.
func (r *Report) Linked() int { return r.count(OpLink) }

func (r *Report) count(op Op) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Op == op && o.Err == nil {
			n++
		}
	}
	return n
}
