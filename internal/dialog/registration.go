package dialog

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/itcenter/coursebot/core/logger"
	"github.com/itcenter/coursebot/core/metrics"
	"github.com/itcenter/coursebot/core/telegram/callbacks"
	tghelpers "github.com/itcenter/coursebot/core/telegram/helpers"
	"github.com/itcenter/coursebot/core/telegram/keyboard"
	"github.com/itcenter/coursebot/internal/models"
	"github.com/itcenter/coursebot/internal/store"
	"github.com/itcenter/coursebot/internal/ui"
	"github.com/itcenter/coursebot/internal/validation"

	tele "gopkg.in/telebot.v4"
)

// StartRegistration (re)starts the registration flow at the name step.
func (e *Engine) StartRegistration(c tele.Context) error {
	e.begin(c, Registration{Step: RegFullName})
	return tghelpers.SendHTML(c, ui.RegStart, keyboard.RemoveKeyboard())
}

func (e *Engine) registrationInput(c tele.Context, r Registration) error {
	text := strings.TrimSpace(c.Text())
	switch r.Step {
	case RegFullName:
		if !validation.ValidateName(text) {
			return tghelpers.SendHTML(c, ui.BadName)
		}
		r.FullName = text
		r.Step = RegAge
		e.put(c, r)
		return tghelpers.SendHTML(c, ui.AskAge)

	case RegAge:
		if !validation.ValidateAge(text) {
			return tghelpers.SendHTML(c, ui.BadAge)
		}
		r.Age = text
		r.Step = RegPhone
		e.put(c, r)
		return tghelpers.SendHTML(c, ui.AskPhone, ui.PhoneRequest())

	case RegPhone:
		var phone string
		if m := c.Message(); m != nil && m.Contact != nil {
			phone = m.Contact.PhoneNumber
		} else {
			if !validation.ValidatePhone(text) {
				return tghelpers.SendHTML(c, ui.BadPhone)
			}
			phone = text
		}
		r.Phone = validation.NormalizePhone(phone, e.cfg.CountryPrefix)
		return e.offerCourses(c, r)

	case RegCourse:
		return tghelpers.SendHTML(c, ui.UseButtons)
	}
	return nil
}

// offerCourses loads the catalog and moves to the course step, or ends the
// flow when there is nothing to choose from.
func (e *Engine) offerCourses(c tele.Context, r Registration) error {
	courses, err := e.store.ListCourses(tghelpers.BuildContext(c))
	if err != nil {
		return e.fail(c, r, "list_courses", err)
	}
	if len(courses) == 0 {
		e.end(c)
		metrics.Default.Registration("no_courses")
		return tghelpers.SendHTML(c, ui.NoCourses, e.mainMenu(c))
	}
	r.Step = RegCourse
	e.put(c, r)
	return tghelpers.SendHTML(c, ui.ChooseCourse, ui.CourseButtons(ui.CbRegCourse, courses))
}

// OnCourseChosen handles the course buttons of the registration flow.
func (e *Engine) OnCourseChosen(c tele.Context) error {
	r, ok := expected[Registration](e, c)
	if !ok || r.Step != RegCourse {
		return tghelpers.Answer(c)
	}
	_ = tghelpers.Answer(c)
	ctx := tghelpers.BuildContext(c)

	courseID := callbacks.Payload(c)
	if courseID == ui.CancelPayload {
		e.end(c)
		metrics.Default.Registration("cancelled")
		if err := tghelpers.EditHTML(c, ui.RegCancelled); err != nil {
			return err
		}
		return tghelpers.SendHTML(c, ui.BackToMenu, e.mainMenu(c))
	}

	course, err := e.store.GetCourse(ctx, courseID)
	if errors.Is(err, store.ErrNotFound) {
		e.end(c)
		metrics.Default.Registration("not_found")
		if err := tghelpers.EditHTML(c, ui.CourseNotFound); err != nil {
			return err
		}
		return tghelpers.SendHTML(c, ui.BackToMenu, e.mainMenu(c))
	}
	if err != nil {
		return e.fail(c, r, "get_course", err)
	}

	u := senderProfile(c)
	reg := models.Registration{
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   r.FullName,
		Age:        r.Age,
		Phone:      r.Phone,
		Course:     course.Name,
		CourseID:   course.ID,
	}
	id, err := e.store.CreateRegistration(ctx, reg)
	if err != nil {
		return e.fail(c, r, "create_registration", err)
	}
	e.end(c)
	metrics.Default.Registration("created")
	logger.LogEvent(ctx, logger.Dialog, slog.LevelInfo, "registration.created",
		slog.String("status", "ok"),
		slog.String("id", id),
		slog.String("course_id", course.ID),
	)

	e.notifyOperator(c, reg)

	if err := tghelpers.EditHTML(c, ui.RegSuccess(reg)); err != nil {
		logger.LogEvent(ctx, logger.Dialog, slog.LevelWarn, "registration.edit_failed",
			slog.String("status", "fail"),
			logger.Err(err),
		)
		return tghelpers.SendHTML(c, ui.RegSuccess(reg), e.mainMenu(c))
	}
	return tghelpers.SendHTML(c, ui.BackToMenu, e.mainMenu(c))
}

// notifyOperator alerts the operator chat. A failure is logged only: the
// registration is already stored.
func (e *Engine) notifyOperator(c tele.Context, reg models.Registration) {
	ctx := tghelpers.BuildContext(c)
	bot := e.messenger()
	if bot == nil || e.cfg.OperatorChatID == 0 {
		logger.LogEvent(ctx, logger.Dialog, slog.LevelError, "operator.notify_failed",
			slog.String("status", "fail"),
			slog.String("cause", "no operator chat"),
		)
		return
	}
	_, err := bot.Send(tele.ChatID(e.cfg.OperatorChatID), ui.OperatorAlert(reg), &tele.SendOptions{ParseMode: tele.ModeHTML})
	if err != nil {
		logger.LogEvent(ctx, logger.Dialog, slog.LevelError, "operator.notify_failed",
			slog.String("status", "fail"),
			logger.Err(err),
		)
	}
}
