package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// Seed stores the built-in festival events when the collection is empty.
// It returns the number of events written.
func Seed(ctx context.Context, store Store, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("events already present, skipping seed", zap.Int("count", len(existing)))
		return 0, nil
	}
	list := SeedEvents()
	if err := store.ReplaceAll(ctx, list); err != nil {
		return 0, fmt.Errorf("seed events: %w", err)
	}
	logger.Info("seeded events", zap.Int("count", len(list)))
	return len(list), nil
}

// SeedEvents returns the festival's launch line-up.
func SeedEvents() []models.Event {
	notPass := func() *bool { v := false; return &v }
	ev := func(id, title, category, description, phone string, pt models.ParticipationType, teamSize, date, at string, slots int, rules ...string) models.Event {
		return models.Event{
			ID:                id,
			Title:             title,
			Category:          category,
			Description:       description,
			Rules:             rules,
			CoordinatorPhone:  phone,
			ParticipationType: pt,
			TeamSize:          teamSize,
			Date:              date,
			Time:              at,
			MaxSlots:          slots,
			TicketTiers:       []string{},
			IsPassEvent:       notPass(),
		}
	}
	return []models.Event{
		ev("1", "ANYBODY CAN DANCE (Group)", "Group Dance",
			"Group dance showcasing coordination, expressions & energy!",
			"JERVIN J.V- 7418907836", models.ParticipationTeam, "3-12", "Feb 27, 2026", "10:00 AM", 50,
			"Team size: 3–12 participants.",
			"Time limit: 3–5 minutes.",
			"Use only non-copyrighted music.",
			"Props allowed.",
			"Judging based on coordination & energy."),
		ev("2", "ANYBODY CAN DANCE (Solo)", "Solo Dance",
			"Join our dance event – rhythm, creativity, and energy!",
			"JERVIN J.V- 7418907836", models.ParticipationSolo, "", "Feb 27, 2026", "11:00 AM", 50,
			"Perform solo with original choreography.",
			"Performance duration: 2–3 minutes.",
			"Props allowed but must be self-managed.",
			"Costumes must be appropriate.",
			"Report 30 minutes before your slot."),
		ev("3", "VOICE QUEST (Group)", "Group Singing",
			"Singing event uniting students through music!",
			"DARSHAN S - 8637466016", models.ParticipationTeam, "3-10", "Feb 27, 2026", "12:00 PM", 30,
			"Team size: 3–10 participants.",
			"Time limit: 4 minutes.",
			"Live instruments allowed.",
			"No offensive lyrics.",
			"Judging based on harmony & coordination."),
		ev("4", "VOICE QUEST (Solo)", "Solo Singing",
			"Showcase your vocal talent in this solo singing competition!",
			"DARSHAN S - 8637466016", models.ParticipationSolo, "", "Feb 27, 2026", "02:00 PM", 50,
			"Solo performance only.",
			"Maximum time: 3 minutes.",
			"Karaoke track must be submitted beforehand.",
			"Offensive lyrics prohibited.",
			"Judging based on pitch & clarity."),
		ev("5", "FRAME BY FRAME", "Film",
			"Short-film contest for creative storytellers!",
			"SAI SANTHOSH P - 8072152950", models.ParticipationTeam, "1-4", "Feb 28, 2026", "10:00 AM", 40,
			"Submit individually or in teams of 1–4.",
			"Film duration: 5–7 minutes including credits.",
			"Background score allowed; songs with lyrics prohibited.",
			"Film must be original & copyright-free.",
			"Upload to Drive and bring a pendrive copy."),
		ev("6", "The Walk of Fame", "Ramp Walk",
			"Strut your style on the ramp in this team fashion showcase!",
			"Silviya E - 9361847450", models.ParticipationTeam, "5", "Feb 28, 2026", "04:00 PM", 20,
			"Team: 5 members. Time: 3-5 mins.",
			"Theme: Workplace attire. Creative & decent.",
			"Submit background music in advance.",
			"Teams must justify concept to judges."),
	}
}
