// Package ui holds the bot's Uzbek texts, menu labels and keyboards.
package ui

// Menu labels. They double as command aliases, so each must be unique.
const (
	LabelRegister = "📝 Ro'yxatdan o'tish"
	LabelCourses  = "📚 Kurslar ro'yxati"
	LabelContact  = "☎️ Bog'lanish"
	LabelAbout    = "ℹ️ Ma'lumot"
	LabelAdmin    = "⚙️ Admin panel"

	LabelAddCourse    = "➕ Kurs qo'shish"
	LabelEditCourse   = "✏️ Kursni tahrirlash"
	LabelDeleteCourse = "🗑 Kursni o'chirish"
	LabelBroadcast    = "📢 E'lon yuborish"
	LabelStats        = "📊 Statistika"
	LabelBack         = "⬅️ Asosiy menyu"

	LabelSendPhone = "📱 Telefonni yuborish"
	LabelCancel    = "❌ Bekor qilish"
	LabelJoin      = "📢 Kanalga a'zo bo'lish"
	LabelCheckSub  = "✅ Tekshirish"
)

// Callback keys.
const (
	CbRegCourse    = "reg_course"
	CbCourseEdit   = "course_edit"
	CbCourseField  = "course_field"
	CbCourseDelete = "course_delete"
	CbSubCheck     = "sub_check"
)

// CancelPayload is the callback payload of every inline cancel button.
const CancelPayload = "cancel"
