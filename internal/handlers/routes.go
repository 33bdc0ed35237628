package handlers

import (
	"fmt"

	tg "github.com/itcenter/coursebot/core/telegram"
	"github.com/itcenter/coursebot/core/telegram/commands"
	"github.com/itcenter/coursebot/core/telegram/middleware"
	"github.com/itcenter/coursebot/internal/ui"

	tele "gopkg.in/telebot.v4"
)

type commandDef struct {
	name string
	cmd  commands.Command
}

// Register fills the registry. Every user-facing entry that needs the
// subscription gate is wrapped with gated here, so the gate is visible in
// this table; admin-only entries skip it.
func (h *Handlers) Register(reg *tg.Registry) error {
	gated := h.gate.Require(h.SubscriptionPrompt)
	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{AdminID: h.adminID})

	defs := []commandDef{
		{"/start", commands.Command{Handler: h.Start, Description: "Botni ishga tushirish"}},
		{"/cancel", commands.Command{Handler: h.engine.Cancel, Description: "Joriy amalni bekor qilish", Interrupts: true}},
		{"/register", commands.Command{
			Handler: gated(h.engine.StartRegistration), Description: "Kursga ro'yxatdan o'tish",
			Aliases: []string{ui.LabelRegister}, Interrupts: true,
		}},
		{"/courses", commands.Command{
			Handler: gated(h.Courses), Description: "Kurslar ro'yxati",
			Aliases: []string{ui.LabelCourses},
		}},
		{"/contact", commands.Command{
			Handler: gated(h.Contact), Description: "Bog'lanish",
			Aliases: []string{ui.LabelContact},
		}},
		{"/about", commands.Command{
			Handler: gated(h.About), Description: "Biz haqimizda",
			Aliases: []string{ui.LabelAbout},
		}},
		{"/menu", commands.Command{
			Handler: h.Back, Description: "Asosiy menyu", Hidden: true,
			Aliases: []string{ui.LabelBack},
		}},

		{"/admin", commands.Command{
			Handler: h.AdminPanel, Description: "Admin panel", AdminOnly: true,
			Aliases: []string{ui.LabelAdmin}, Interrupts: true,
		}},
		{"/addcourse", commands.Command{
			Handler: h.engine.StartAddCourse, Description: "Kurs qo'shish", AdminOnly: true,
			Aliases: []string{ui.LabelAddCourse}, Interrupts: true,
		}},
		{"/editcourse", commands.Command{
			Handler: h.engine.StartEditCourse, Description: "Kursni tahrirlash", AdminOnly: true,
			Aliases: []string{ui.LabelEditCourse}, Interrupts: true,
		}},
		{"/deletecourse", commands.Command{
			Handler: h.engine.StartDeleteCourse, Description: "Kursni o'chirish", AdminOnly: true,
			Aliases: []string{ui.LabelDeleteCourse}, Interrupts: true,
		}},
		{"/broadcast", commands.Command{
			Handler: h.engine.StartBroadcast, Description: "E'lon yuborish", AdminOnly: true,
			Aliases: []string{ui.LabelBroadcast}, Interrupts: true,
		}},
		{"/stats", commands.Command{
			Handler: h.Stats, Description: "Statistika", AdminOnly: true,
			Aliases: []string{ui.LabelStats},
		}},
	}
	for _, d := range defs {
		if err := reg.RegisterCommand(d.name, d.cmd); err != nil {
			return err
		}
	}

	cbs := []struct {
		key     string
		handler tele.HandlerFunc
	}{
		{ui.CbRegCourse, h.engine.OnCourseChosen},
		{ui.CbSubCheck, h.CheckSubscription},
		{ui.CbCourseEdit, adminOnly(h.engine.OnEditCourse)},
		{ui.CbCourseField, adminOnly(h.engine.OnEditField)},
		{ui.CbCourseDelete, adminOnly(h.engine.OnDeleteCourse)},
	}
	for _, cb := range cbs {
		if err := reg.RegisterCallback(cb.key, cb.handler); err != nil {
			return fmt.Errorf("callback %s: %w", cb.key, err)
		}
	}

	reg.SetTextFallback(h.fallback)
	reg.SetCallbackNotFound(h.UnknownCallback())
	return nil
}
