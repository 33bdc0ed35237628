package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itcenter/coursebot/core/telegram/format"
	"github.com/itcenter/coursebot/internal/models"

	tele "gopkg.in/telebot.v4"
)

const (
	RegStart = "📝 <b>Ro'yxatdan o'tish</b>\n\n👤 Iltimos, <b>ism va familiyangizni</b> to'liq kiriting:\n\n<i>Masalan: Ahmadjon Valiyev</i>"
	AskAge   = "🎂 <b>Yoshingizni kiriting:</b>\n\nℹ️ <i>Faqat raqam kiriting (5-100 oralig'ida)</i>"
	BadName  = "❌ Iltimos, ism va familiyangizni faqat harflar bilan kiriting.\n\n<i>Masalan: Ahmadjon Valiyev</i>"
	BadAge   = "❌ <b>Noto'g'ri yosh!</b>\n\nℹ️ Iltimos:\n• Faqat raqam kiriting\n• 5 dan 100 gacha bo'lgan yoshni kiriting\n\n<i>Masalan: 25</i>"
	AskPhone = "📱 <b>Telefon raqamingizni yuboring:</b>\n\nℹ️ Ikki usuldan birini tanlang:\n• Pastdagi tugmani bosing\n• Yoki qo'lda kiriting (+998901234567)"
	BadPhone = "❌ Noto'g'ri telefon raqami! Iltimos, to'g'ri formatda kiriting.\nMasalan: +998901234567"

	ChooseCourse   = "🎓 <b>Kursni tanlang:</b>\n\nℹ️ <i>Quyidagi kurslardan birini tanlang:</i>"
	NoCourses      = "❌ Hozircha kurslar mavjud emas. Keyinroq urinib ko'ring."
	RegCancelled   = "❌ Ro'yxatdan o'tish bekor qilindi."
	FlowCancelled  = "❌ Amal bekor qilindi."
	NothingToStop  = "ℹ️ Bekor qilinadigan amal yo'q."
	BackToMenu     = "ℹ️ Asosiy menyuga qaytdingiz."
	CourseNotFound = "❌ Kurs topilmadi!"
	UseButtons     = "ℹ️ Iltimos, tugmalardan birini tanlang."
	PickSection    = "ℹ️ Kerakli bo'limni menyudan tanlang."
	CoursesFailed  = "❌ Kurslarni yuklashda xatolik yuz berdi."
	GenericError   = "❌ Xatolik yuz berdi. Iltimos, qayta urinib ko'ring yoki admin bilan bog'laning: @ITCenter_01"

	ContactInfo = "☎️ <b>Bog'lanish ma'lumotlari:</b>\n\n" +
		"📱 <b>Telefon:</b> +998 99 448-46-24\n" +
		"📍 <b>Manzil:</b> Muzrabot tuman, Xalqabot IT Center\n" +
		"⏰ <b>Ish vaqti:</b> 9:00 - 18:00\n\n" +
		"ℹ️ <b>Admin:</b> @ITCenter_01\n\n" +
		"📚 <i>Barcha savollaringiz bo'yicha murojaat qilishingiz mumkin!</i>"

	AboutInfo = "ℹ️ <b>IT Center haqida:</b>\n\n" +
		"🎓 Biz zamonaviy IT ta'lim markazi bo'lib, professional dasturchilar tayyorlaymiz.\n\n" +
		"<b>Bizning afzalliklarimiz:</b>\n" +
		"• Tajribali o'qituvchilar\n• Amaliy loyihalar\n• Ish bilan ta'minlash\n• Sertifikat berish\n• Kichik guruhlar\n\n" +
		"✅ <b>1000+</b> muvaffaqiyatli bitiruvchi\n" +
		"⏰ <b>5 yil</b> tajriba\n" +
		"🎓 <b>10+</b> turli kurslar\n\n" +
		"📝 Bugunoq ro'yxatdan o'ting va IT sohasida o'z karerangizni boshlang!"

	SubscribeRequired = "📢 <b>Botdan foydalanish uchun kanalimizga a'zo bo'ling.</b>\n\nA'zo bo'lgach, «Tekshirish» tugmasini bosing."
	NotSubscribed     = "❌ Siz hali kanalga a'zo emassiz."
	Subscribed        = "✅ Rahmat! Endi botdan to'liq foydalanishingiz mumkin."

	AdminMenuText   = "⚙️ <b>Admin panel</b>\n\nKerakli amalni tanlang:"
	AskCourseName   = "📝 Yangi kurs <b>nomini</b> kiriting (3-128 ta belgi):"
	BadCourseName   = "❌ Kurs nomi 3 tadan 128 tagacha belgidan iborat bo'lishi kerak."
	AskDuration     = "⏰ Kurs <b>davomiyligini</b> haftalarda kiriting (1-24):"
	BadDuration     = "❌ Davomiylik 1 dan 24 gacha bo'lgan butun son bo'lishi kerak."
	AskPrice        = "💰 Kurs <b>narxini</b> so'mda kiriting (masalan: 300000):"
	BadPrice        = "❌ Narx manfiy bo'lmagan butun son bo'lishi kerak."
	AskDescription  = "ℹ️ Kurs <b>tavsifini</b> kiriting (1024 belgigacha). Tavsif kerak bo'lmasa <code>yo'q</code> deb yozing:"
	BadDescription  = "❌ Tavsif 1024 belgidan oshmasligi kerak."
	PickEditCourse  = "✏️ Tahrirlash uchun kursni tanlang:"
	PickField       = "✏️ Qaysi maydonni o'zgartirasiz?"
	PickDelete      = "🗑 O'chirish uchun kursni tanlang.\n\n⚠️ <b>Diqqat:</b> bu amalni qaytarib bo'lmaydi!"
	DeleteCancelled = "❌ O'chirish bekor qilindi."
	NoCoursesAdmin  = "ℹ️ Hozircha kurslar yo'q. Avval kurs qo'shing."
	AskBroadcast    = "📢 Barcha foydalanuvchilarga yuboriladigan xabarni yuboring (matn, rasm, video yoki hujjat):"
	BadBroadcast    = "❌ Bu turdagi xabarni yuborib bo'lmaydi. Matn, rasm, video yoki hujjat yuboring."

	// AnnouncementPrefix heads every broadcast copy.
	AnnouncementPrefix = "📢 <b>E'lon</b>"
)

// Welcome greets the user by first name.
func Welcome(firstName string) string {
	if firstName == "" {
		firstName = "Foydalanuvchi"
	}
	return fmt.Sprintf("🎉 <b>IT Center botiga xush kelibsiz, %s!</b>\n\n"+
		"ℹ️ Bu bot orqali siz:\n"+
		"• Kurslarimizga ro'yxatdan o'ta olasiz\n"+
		"• Barcha kurslar haqida ma'lumot olasiz\n"+
		"• Biz bilan bog'lana olasiz\n\n"+
		"Kerakli bo'limni tanlang:", format.EscapeHTML(firstName))
}

// Price renders an amount with space-separated thousands.
func Price(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// CourseList renders the public catalog.
func CourseList(courses []models.Course) string {
	if len(courses) == 0 {
		return "❌ Hozircha kurslar mavjud emas."
	}
	var b strings.Builder
	b.WriteString("📚 <b>Bizning kurslarimiz:</b>\n\n")
	for i, c := range courses {
		b.WriteString(format.Bold(fmt.Sprintf("%d. %s", i+1, c.Name)) + "\n")
		fmt.Fprintf(&b, "⏰ Davomiyligi: %d hafta\n", c.DurationWeeks)
		fmt.Fprintf(&b, "💰 Narxi: %s so'm\n", Price(c.Price))
		if c.Description != "" {
			fmt.Fprintf(&b, "ℹ️ %s\n", format.EscapeHTML(c.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString("📝 " + format.Italic("Ro'yxatdan o'tish uchun tegishli tugmani bosing!"))
	return b.String()
}

// RegSuccess confirms a registration to the student.
func RegSuccess(r models.Registration) string {
	return fmt.Sprintf("✅ <b>Tabriklaymiz!</b>\n\n"+
		"ℹ️ Arizangiz muvaffaqiyatli qabul qilindi!\n\n"+
		"<b>Ma'lumotlaringiz:</b>\n"+
		"👤 Ism: %s\n🎂 Yosh: %s\n📱 Telefon: %s\n🎓 Kurs: %s\n\n"+
		"⏰ Tez orada operatorlarimiz siz bilan bog'lanishadi!",
		format.EscapeHTML(r.FullName), format.EscapeHTML(r.Age),
		format.EscapeHTML(r.Phone), format.EscapeHTML(r.Course))
}

// OperatorAlert is the notification sent to the operator chat.
func OperatorAlert(r models.Registration) string {
	return fmt.Sprintf("🆕 <b>YANGI ARIZA!</b>\n\n"+
		"👤 <b>Ism:</b> %s\n🎂 <b>Yosh:</b> %s\n📱 <b>Telefon:</b> %s\n🎓 <b>Kurs:</b> %s\n\n"+
		"ℹ️ <b>Telegram:</b> %s\n🆔 <b>ID:</b> %d",
		format.EscapeHTML(r.FullName), format.EscapeHTML(r.Age),
		format.EscapeHTML(r.Phone), format.EscapeHTML(r.Course),
		format.Mention(r.Username, "username yo'q"), r.TelegramID)
}

func courseCard(c models.Course) string {
	desc := c.Description
	if desc == "" {
		desc = "-"
	}
	return fmt.Sprintf("📝 %s\n⏰ %d hafta\n💰 %s so'm\nℹ️ %s",
		format.Bold(c.Name), c.DurationWeeks, Price(c.Price), format.EscapeHTML(desc))
}

// CourseCreated confirms the add-course wizard.
func CourseCreated(c models.Course) string {
	return "✅ <b>Kurs qo'shildi!</b>\n\n" + courseCard(c)
}

// CourseUpdated confirms an edit and shows the course as it is now.
func CourseUpdated(c models.Course) string {
	return "✅ <b>Kurs yangilandi!</b>\n\n" + courseCard(c)
}

// AskNewValue prompts for the replacement value of field.
func AskNewValue(c models.Course, f models.CourseField) string {
	var current string
	var rule string
	switch f {
	case models.FieldName:
		current, rule = c.Name, "3-128 ta belgi"
	case models.FieldDuration:
		current, rule = strconv.Itoa(c.DurationWeeks), "1-24 hafta"
	case models.FieldPrice:
		current, rule = Price(c.Price), "so'mda, manfiy emas"
	case models.FieldDescription:
		current, rule = c.Description, "1024 belgigacha, kerak bo'lmasa yo'q deb yozing"
	}
	return fmt.Sprintf("✏️ %s kursi, %s\n\nHozirgi qiymat: <code>%s</code>\nYangi qiymatni kiriting (%s):",
		format.Bold(c.Name), FieldLabel(f), format.EscapeHTML(current), rule)
}

// FieldInvalid is the re-prompt for a rejected field value.
func FieldInvalid(f models.CourseField) string {
	switch f {
	case models.FieldName:
		return BadCourseName
	case models.FieldDuration:
		return BadDuration
	case models.FieldPrice:
		return BadPrice
	case models.FieldDescription:
		return BadDescription
	}
	return GenericError
}

// CourseDeleted confirms a deletion.
func CourseDeleted(name string) string {
	return "🗑 " + format.Bold(name) + " kursi o'chirildi."
}

// BroadcastProgress is shown while the announcement is delivered.
func BroadcastProgress(sent, failed, total int) string {
	return fmt.Sprintf("📤 Yuborilmoqda... %d/%d\n✅ %d  ❌ %d", sent+failed, total, sent, failed)
}

// BroadcastDone reports the final tally.
func BroadcastDone(sent, failed int, percent float64) string {
	return fmt.Sprintf("📢 <b>E'lon yuborildi!</b>\n\n✅ Yetkazildi: %d\n❌ Xatolik: %d\n📊 Muvaffaqiyat: %.1f%%",
		sent, failed, percent)
}

// Stats renders counters for the admin panel.
func Stats(s models.Stats) string {
	return fmt.Sprintf("📊 <b>Statistika</b>\n\n👥 Foydalanuvchilar: %d\n🎓 Kurslar: %d\n📝 Arizalar: %d",
		s.Users, s.Courses, s.Registrations)
}

// Announcement prefixes an admin's text or caption, keeping the
// formatting carried by its entities.
func Announcement(body string, entities tele.Entities) string {
	if strings.TrimSpace(body) == "" {
		return AnnouncementPrefix
	}
	return AnnouncementPrefix + "\n\n" + format.EntitiesHTML(body, entities)
}
