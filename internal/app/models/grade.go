package models

// Grade is one section's grade distribution for one semester.
type Grade struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"courseId" db:"course_id"`
	ProfessorID *int64 `json:"professorId,omitempty" db:"professor_id"` // Nullable
	Semester    string `json:"semester" db:"semester"`                  // YYYYMM
	Section     string `json:"section" db:"section"`

	GradeDistribution
}

// GradeDistribution holds letter grade counts.
type GradeDistribution struct {
	APlus  int `json:"A+" db:"a_plus"`
	A      int `json:"A" db:"a"`
	AMinus int `json:"A-" db:"a_minus"`
	BPlus  int `json:"B+" db:"b_plus"`
	B      int `json:"B" db:"b"`
	BMinus int `json:"B-" db:"b_minus"`
	CPlus  int `json:"C+" db:"c_plus"`
	C      int `json:"C" db:"c"`
	CMinus int `json:"C-" db:"c_minus"`
	DPlus  int `json:"D+" db:"d_plus"`
	D      int `json:"D" db:"d"`
	DMinus int `json:"D-" db:"d_minus"`
	F      int `json:"F" db:"f"`
	W      int `json:"W" db:"w"`
	Other  int `json:"other" db:"other"`
}

// Add accumulates another distribution into d
func (d *GradeDistribution) Add(o GradeDistribution) {
	d.APlus += o.APlus
	d.A += o.A
	d.AMinus += o.AMinus
	d.BPlus += o.BPlus
	d.B += o.B
	d.BMinus += o.BMinus
	d.CPlus += o.CPlus
	d.C += o.C
	d.CMinus += o.CMinus
	d.DPlus += o.DPlus
	d.D += o.D
	d.DMinus += o.DMinus
	d.F += o.F
	d.W += o.W
	d.Other += o.Other
}

// Total returns the number of students counted
func (d GradeDistribution) Total() int {
	return d.APlus + d.A + d.AMinus + d.BPlus + d.B + d.BMinus +
		d.CPlus + d.C + d.CMinus + d.DPlus + d.D + d.DMinus +
		d.F + d.W + d.Other
}

// GradeFilter narrows grade record queries. Nil fields are not filtered on.
type GradeFilter struct {
	CourseID *int64
	Semester *string
	Section  *string
}
