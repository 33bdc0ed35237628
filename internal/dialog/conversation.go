package dialog

import "github.com/itcenter/coursebot/internal/models"

// Conversation is the state of one chat's running flow. The variants are
// Registration, CourseDraft, CourseEdit, CourseRemoval and Broadcast.
type Conversation interface {
	Flow() string
	StepName() string
	conversation()
}

// RegStep is a step of the registration flow.
type RegStep int

const (
	RegFullName RegStep = iota + 1
	RegAge
	RegPhone
	RegCourse
)

func (s RegStep) String() string {
	switch s {
	case RegFullName:
		return "fullname"
	case RegAge:
		return "age"
	case RegPhone:
		return "phone"
	case RegCourse:
		return "course"
	}
	return "unknown"
}

// Registration collects a student's answers. Fields are filled only after
// they pass validation.
type Registration struct {
	Step     RegStep
	FullName string
	Age      string
	Phone    string
}

// DraftStep is a step of the add-course wizard.
type DraftStep int

const (
	DraftName DraftStep = iota + 1
	DraftDuration
	DraftPrice
	DraftDescription
)

func (s DraftStep) String() string {
	switch s {
	case DraftName:
		return "name"
	case DraftDuration:
		return "duration"
	case DraftPrice:
		return "price"
	case DraftDescription:
		return "description"
	}
	return "unknown"
}

// CourseDraft is a course being assembled by the add-course wizard.
type CourseDraft struct {
	Step   DraftStep
	Course models.Course
}

// EditStep is a step of the edit-course wizard.
type EditStep int

const (
	EditPickCourse EditStep = iota + 1
	EditPickField
	EditValue
)

func (s EditStep) String() string {
	switch s {
	case EditPickCourse:
		return "pick_course"
	case EditPickField:
		return "pick_field"
	case EditValue:
		return "value"
	}
	return "unknown"
}

// CourseEdit tracks the course and field chosen for a single-field edit.
type CourseEdit struct {
	Step   EditStep
	Course models.Course
	Field  models.CourseField
}

// CourseRemoval waits for the course to delete.
type CourseRemoval struct{}

// Broadcast waits for the announcement to send.
type Broadcast struct{}

const (
	FlowRegistration = "registration"
	FlowAddCourse    = "add_course"
	FlowEditCourse   = "edit_course"
	FlowDeleteCourse = "delete_course"
	FlowBroadcast    = "broadcast"
)

func (Registration) Flow() string  { return FlowRegistration }
func (CourseDraft) Flow() string   { return FlowAddCourse }
func (CourseEdit) Flow() string    { return FlowEditCourse }
func (CourseRemoval) Flow() string { return FlowDeleteCourse }
func (Broadcast) Flow() string     { return FlowBroadcast }

func (r Registration) StepName() string { return r.Step.String() }
func (d CourseDraft) StepName() string  { return d.Step.String() }
func (e CourseEdit) StepName() string   { return e.Step.String() }
func (CourseRemoval) StepName() string  { return "pick_course" }
func (Broadcast) StepName() string      { return "message" }

func (Registration) conversation()  {}
func (CourseDraft) conversation()   {}
func (CourseEdit) conversation()    {}
func (CourseRemoval) conversation() {}
func (Broadcast) conversation()     {}

// admin reports whether the flow belongs to the admin surface.
func admin(c Conversation) bool {
	_, reg := c.(Registration)
	return !reg
}
