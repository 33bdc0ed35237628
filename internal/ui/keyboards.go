package ui

import (
	"github.com/itcenter/coursebot/core/telegram/keyboard"
	"github.com/itcenter/coursebot/internal/models"

	tele "gopkg.in/telebot.v4"
)

// MainMenu is the reply keyboard every flow returns to. Admins get an
// extra row with the admin panel.
func MainMenu(admin bool) *tele.ReplyMarkup {
	rows := [][]string{
		{LabelRegister, LabelCourses},
		{LabelContact, LabelAbout},
	}
	if admin {
		rows = append(rows, []string{LabelAdmin})
	}
	return keyboard.ReplyButtons(rows...)
}

// AdminMenu lists the admin actions.
func AdminMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelAddCourse, LabelEditCourse},
		[]string{LabelDeleteCourse, LabelBroadcast},
		[]string{LabelStats, LabelBack},
	)
}

// PhoneRequest offers a share-contact button.
func PhoneRequest() *tele.ReplyMarkup {
	return keyboard.ContactRequest(LabelSendPhone)
}

// CancelOnly is the reply keyboard shown while an admin types a value.
func CancelOnly() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{"/cancel"})
}

// CourseButtons lists courses as inline buttons under unique, one per row,
// followed by a cancel button.
func CourseButtons(unique string, courses []models.Course) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(courses)+1)
	for _, c := range courses {
		btns = append(btns, keyboard.InlineBtn{Text: "🎓 " + c.Name, Unique: unique, Data: c.ID})
	}
	btns = append(btns, keyboard.InlineBtn{Text: LabelCancel, Unique: unique, Data: CancelPayload})
	return keyboard.InlineButtons(btns)
}

var fieldLabels = map[models.CourseField]string{
	models.FieldName:        "📝 Nomi",
	models.FieldDuration:    "⏰ Davomiyligi",
	models.FieldPrice:       "💰 Narxi",
	models.FieldDescription: "ℹ️ Tavsif",
}

// FieldLabel names a course field for buttons and prompts.
func FieldLabel(f models.CourseField) string { return fieldLabels[f] }

// FieldButtons offers the editable course fields, two per row.
func FieldButtons() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(models.CourseFields)+1)
	for _, f := range models.CourseFields {
		btns = append(btns, keyboard.InlineBtn{Text: FieldLabel(f), Unique: CbCourseField, Data: f.Key()})
	}
	btns = append(btns, keyboard.InlineBtn{Text: LabelCancel, Unique: CbCourseField, Data: CancelPayload})
	return keyboard.InlineButtonsNPerRow(btns, 2)
}

// SubscribePrompt links to the channel and offers a re-check.
func SubscribePrompt(channelURL string) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	if channelURL != "" {
		rows = append(rows, []keyboard.InlineBtn{{Text: LabelJoin, URL: channelURL}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: LabelCheckSub, Unique: CbSubCheck}})
	return keyboard.InlineButtonsRows(rows...)
}
