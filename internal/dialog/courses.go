package dialog

import (
	"errors"
	"log/slog"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/core/telegram/callbacks"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
	"github.com/itcenter/coursebot/internal/ui"
	"github.com/itcenter/coursebot/internal/validation"

	tele "gopkg.in/telebot.v4"
)

// StartAddCourse opens the add-course wizard.
func (e *Engine) StartAddCourse(c tele.Context) error {
	e.begin(c, CourseDraft{Step: DraftName})
	return tghelpers.SendHTML(c, ui.AskCourseName, ui.CancelOnly())
}

func (e *Engine) draftInput(c tele.Context, d CourseDraft) error {
	text := c.Text()
	switch d.Step {
	case DraftName:
		name, err := validation.ParseCourseName(text)
		if err != nil {
			return tghelpers.SendHTML(c, ui.BadCourseName)
		}
		d.Course.Name = name
		d.Step = DraftDuration
		e.put(c, d)
		return tghelpers.SendHTML(c, ui.AskDuration)

	case DraftDuration:
		weeks, err := validation.ParseDuration(text)
		if err != nil {
			return tghelpers.SendHTML(c, ui.BadDuration)
		}
		d.Course.DurationWeeks = weeks
		d.Step = DraftPrice
		e.put(c, d)
		return tghelpers.SendHTML(c, ui.AskPrice)

	case DraftPrice:
		price, err := validation.ParsePrice(text)
		if err != nil {
			return tghelpers.SendHTML(c, ui.BadPrice)
		}
		d.Course.Price = price
		d.Step = DraftDescription
		e.put(c, d)
		return tghelpers.SendHTML(c, ui.AskDescription)

	case DraftDescription:
		desc, err := validation.ParseDescription(text)
		if err != nil {
			return tghelpers.SendHTML(c, ui.BadDescription)
		}
		d.Course.Description = desc
		d.Course.CreatedBy = tghelpers.SenderID(c)
		return e.saveDraft(c, d)
	}
	return nil
}

func draftStepOf(f models.CourseField) DraftStep {
	switch f {
	case models.FieldDuration:
		return DraftDuration
	case models.FieldPrice:
		return DraftPrice
	case models.FieldDescription:
		return DraftDescription
	}
	return DraftName
}

func (e *Engine) saveDraft(c tele.Context, d CourseDraft) error {
	ctx := tghelpers.BuildContext(c)
	if err := validation.ValidateCourse(d.Course); err != nil {
		var fe *validation.FieldError
		if !errors.As(err, &fe) {
			return e.fail(c, d, "validate_course", err)
		}
		// Step parsers normally catch this; ask for the rejected field again.
		d.Step = draftStepOf(fe.Field)
		e.put(c, d)
		return tghelpers.SendHTML(c, ui.FieldInvalid(fe.Field))
	}
	id, err := e.store.CreateCourse(ctx, d.Course)
	if err != nil {
		return e.fail(c, d, "create_course", err)
	}
	e.end(c)
	logger.LogEvent(ctx, logger.Dialog, slog.LevelInfo, "course.created",
		slog.String("status", "ok"),
		slog.String("course_id", id),
		slog.String("course", d.Course.Name),
	)
	return tghelpers.SendHTML(c, ui.CourseCreated(d.Course), ui.AdminMenu())
}

// pickCourse lists the catalog under unique and starts conv, or tells the
// admin there is nothing to pick.
func (e *Engine) pickCourse(c tele.Context, conv Conversation, unique, prompt string) error {
	courses, err := e.store.ListCourses(tghelpers.BuildContext(c))
	if err != nil {
		return e.fail(c, conv, "list_courses", err)
	}
	if len(courses) == 0 {
		e.end(c)
		return tghelpers.SendHTML(c, ui.NoCoursesAdmin, ui.AdminMenu())
	}
	e.begin(c, conv)
	return tghelpers.SendHTML(c, prompt, ui.CourseButtons(unique, courses))
}

// closeInline replaces the inline prompt with text and shows the admin menu.
func closeInline(c tele.Context, text string) error {
	if err := tghelpers.EditHTML(c, text); err != nil {
		return err
	}
	return tghelpers.SendHTML(c, ui.AdminMenuText, ui.AdminMenu())
}

// StartEditCourse opens the edit-course wizard.
func (e *Engine) StartEditCourse(c tele.Context) error {
	return e.pickCourse(c, CourseEdit{Step: EditPickCourse}, ui.CbCourseEdit, ui.PickEditCourse)
}

// OnEditCourse handles the course buttons of the edit wizard.
func (e *Engine) OnEditCourse(c tele.Context) error {
	ed, ok := expected[CourseEdit](e, c)
	if !ok || ed.Step != EditPickCourse {
		return tghelpers.Answer(c)
	}
	_ = tghelpers.Answer(c)

	id := callbacks.Payload(c)
	if id == ui.CancelPayload {
		e.end(c)
		return closeInline(c, ui.FlowCancelled)
	}
	course, err := e.store.GetCourse(tghelpers.BuildContext(c), id)
	if errors.Is(err, store.ErrNotFound) {
		e.end(c)
		return closeInline(c, ui.CourseNotFound)
	}
	if err != nil {
		return e.fail(c, ed, "get_course", err)
	}
	ed.Course = course
	ed.Step = EditPickField
	e.put(c, ed)
	return tghelpers.EditHTML(c, ui.PickField, ui.FieldButtons())
}

// OnEditField handles the field buttons of the edit wizard.
func (e *Engine) OnEditField(c tele.Context) error {
	ed, ok := expected[CourseEdit](e, c)
	if !ok || ed.Step != EditPickField {
		return tghelpers.Answer(c)
	}
	payload := callbacks.Payload(c)
	if payload == ui.CancelPayload {
		_ = tghelpers.Answer(c)
		e.end(c)
		return closeInline(c, ui.FlowCancelled)
	}
	field, ok := models.ParseCourseField(payload)
	if !ok {
		return tghelpers.Answer(c)
	}
	_ = tghelpers.Answer(c)
	ed.Field = field
	ed.Step = EditValue
	e.put(c, ed)
	return tghelpers.EditHTML(c, ui.AskNewValue(ed.Course, field))
}

func (e *Engine) editInput(c tele.Context, ed CourseEdit) error {
	if ed.Step != EditValue {
		return tghelpers.SendHTML(c, ui.UseButtons)
	}
	change, err := validation.ParseChange(ed.Field, c.Text())
	if err != nil {
		return tghelpers.SendHTML(c, ui.FieldInvalid(ed.Field))
	}
	ctx := tghelpers.BuildContext(c)
	err = e.store.UpdateCourse(ctx, ed.Course.ID, change, tghelpers.SenderID(c))
	if errors.Is(err, store.ErrNotFound) {
		e.end(c)
		return tghelpers.SendHTML(c, ui.CourseNotFound, ui.AdminMenu())
	}
	if err != nil {
		return e.fail(c, ed, "update_course", err)
	}
	e.end(c)
	change.Apply(&ed.Course)
	logger.LogEvent(ctx, logger.Dialog, slog.LevelInfo, "course.updated",
		slog.String("status", "ok"),
		slog.String("course_id", ed.Course.ID),
		slog.String("field", ed.Field.Key()),
	)
	return tghelpers.SendHTML(c, ui.CourseUpdated(ed.Course), ui.AdminMenu())
}

// StartDeleteCourse opens the delete-course wizard. The prompt warns that
// deletion cannot be undone.
func (e *Engine) StartDeleteCourse(c tele.Context) error {
	return e.pickCourse(c, CourseRemoval{}, ui.CbCourseDelete, ui.PickDelete)
}

// OnDeleteCourse handles the course buttons of the delete wizard.
func (e *Engine) OnDeleteCourse(c tele.Context) error {
	rm, ok := expected[CourseRemoval](e, c)
	if !ok {
		return tghelpers.Answer(c)
	}
	_ = tghelpers.Answer(c)
	ctx := tghelpers.BuildContext(c)

	id := callbacks.Payload(c)
	if id == ui.CancelPayload {
		e.end(c)
		return closeInline(c, ui.DeleteCancelled)
	}
	course, err := e.store.GetCourse(ctx, id)
	if err == nil {
		err = e.store.DeleteCourse(ctx, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		e.end(c)
		return closeInline(c, ui.CourseNotFound)
	}
	if err != nil {
		return e.fail(c, rm, "delete_course", err)
	}
	e.end(c)
	logger.LogEvent(ctx, logger.Dialog, slog.LevelInfo, "course.deleted",
		slog.String("status", "ok"),
		slog.String("course_id", id),
		slog.String("course", course.Name),
	)
	return closeInline(c, ui.CourseDeleted(course.Name))
}
