package types

// ScalarField identifies a top-level string field of a Draft.
type ScalarField string

const (
	FieldName    ScalarField = "name"
	FieldEmail   ScalarField = "email"
	FieldSummary ScalarField = "summary"
)

// ScalarFields lists the scalar fields in form order.
var ScalarFields = []ScalarField{FieldName, FieldEmail, FieldSummary}

// ExperienceField identifies a field of an ExperienceEntry.
type ExperienceField string

const (
	ExperienceJobTitle    ExperienceField = "jobTitle"
	ExperienceCompany     ExperienceField = "company"
	ExperienceStartYear   ExperienceField = "startYear"
	ExperienceEndYear     ExperienceField = "endYear"
	ExperienceDescription ExperienceField = "description"
)

// ExperienceFields lists the experience fields in form order.
var ExperienceFields = []ExperienceField{
	ExperienceJobTitle,
	ExperienceCompany,
	ExperienceStartYear,
	ExperienceEndYear,
	ExperienceDescription,
}

// EducationField identifies a field of an EducationEntry.
type EducationField string

const (
	EducationUniversity EducationField = "university"
	EducationDegree     EducationField = "degree"
	EducationStartYear  EducationField = "startYear"
	EducationEndYear    EducationField = "endYear"
)

// EducationFields lists the education fields in form order.
var EducationFields = []EducationField{
	EducationUniversity,
	EducationDegree,
	EducationStartYear,
	EducationEndYear,
}

// ListName identifies one of the two repeated groups of a Draft.
type ListName string

const (
	ListExperiences ListName = "experiences"
	ListEducation   ListName = "education"
)

// ParseScalarField maps a wire name to a ScalarField.
func ParseScalarField(name string) (ScalarField, bool) {
	for _, f := range ScalarFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ParseExperienceField maps a wire name to an ExperienceField.
func ParseExperienceField(name string) (ExperienceField, bool) {
	for _, f := range ExperienceFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ParseEducationField maps a wire name to an EducationField.
func ParseEducationField(name string) (EducationField, bool) {
	for _, f := range EducationFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// ParseListName maps a wire name to a ListName.
func ParseListName(name string) (ListName, bool) {
	switch ListName(name) {
	case ListExperiences, ListEducation:
		return ListName(name), true
	}
	return "", false
}

// Label returns the placeholder text shown for the field.
func (f ScalarField) Label() string {
	switch f {
	case FieldName:
		return "Full Name"
	case FieldEmail:
		return "Email"
	case FieldSummary:
		return "Professional Summary"
	}
	return string(f)
}

// Label returns the placeholder text shown for the field.
func (f ExperienceField) Label() string {
	switch f {
	case ExperienceJobTitle:
		return "Job Title"
	case ExperienceCompany:
		return "Company"
	case ExperienceStartYear:
		return "Start Year"
	case ExperienceEndYear:
		return "End Year"
	case ExperienceDescription:
		return "Description"
	}
	return string(f)
}

// Label returns the placeholder text shown for the field.
func (f EducationField) Label() string {
	switch f {
	case EducationUniversity:
		return "University"
	case EducationDegree:
		return "Degree"
	case EducationStartYear:
		return "Start Year"
	case EducationEndYear:
		return "End Year"
	}
	return string(f)
}

// Get returns the value of a scalar field.
func (d *Draft) Get(f ScalarField) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldSummary:
		return d.Summary
	}
	return ""
}

// Set assigns a scalar field. It reports false for an unknown field.
func (d *Draft) Set(f ScalarField, value string) bool {
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldSummary:
		d.Summary = value
	default:
		return false
	}
	return true
}

// Get returns the value of an experience field.
func (e *ExperienceEntry) Get(f ExperienceField) string {
	switch f {
	case ExperienceJobTitle:
		return e.JobTitle
	case ExperienceCompany:
		return e.Company
	case ExperienceStartYear:
		return e.StartYear
	case ExperienceEndYear:
		return e.EndYear
	case ExperienceDescription:
		return e.Description
	}
	return ""
}

// Set assigns an experience field. It reports false for an unknown field.
func (e *ExperienceEntry) Set(f ExperienceField, value string) bool {
	switch f {
	case ExperienceJobTitle:
		e.JobTitle = value
	case ExperienceCompany:
		e.Company = value
	case ExperienceStartYear:
		e.StartYear = value
	case ExperienceEndYear:
		e.EndYear = value
	case ExperienceDescription:
		e.Description = value
	default:
		return false
	}
	return true
}

// Get returns the value of an education field.
func (e *EducationEntry) Get(f EducationField) string {
	switch f {
	case EducationUniversity:
		return e.University
	case EducationDegree:
		return e.Degree
	case EducationStartYear:
		return e.StartYear
	case EducationEndYear:
		return e.EndYear
	}
	return ""
}

// Set assigns an education field. It reports false for an unknown field.
func (e *EducationEntry) Set(f EducationField, value string) bool {
	switch f {
	case EducationUniversity:
		e.University = value
	case EducationDegree:
		e.Degree = value
	case EducationStartYear:
		e.StartYear = value
	case EducationEndYear:
		e.EndYear = value
	default:
		return false
	}
	return true
}
