package pillars

import "strings"

// Pillar is one of the eight fixed life domains a user rates during the
// baseline flow. The catalog order is meaningful: it drives the rating
// sequence and breaks ties when picking the lowest-rated pillars.
type Pillar struct {
	Key         string
	Label       string
	Description string
	Suggestions []string
}

var catalog = []Pillar{
	{
		Key:         "environment",
		Label:       "Environment & Structure",
		Description: "Your routines, cues, and setup that make healthy choices easier.",
		Suggestions: []string{
			"create a 2-minute start ritual (clear desk, fill water, set a 25-min timer)",
			"place visible cues (fruit bowl, shoes by door, vitamins on breakfast table)",
			"do night-before prep (lay out gym clothes, pack lunch, schedule tomorrow's walk)",
		},
	},
	{
		Key:         "nutrition",
		Label:       "Nutrition & Gut Health",
		Description: "Regular meals/snacks and choices that support energy, mood, and gut health.",
		Suggestions: []string{
			"anchor 3 meal times (e.g., 8am, 1pm, 7pm) for the next 7 days",
			"add 1 portion of vegetables to lunch daily this week",
			"carry a planned snack (protein + fiber) for the afternoon dip",
		},
	},
	{
		Key:         "sleep",
		Label:       "Sleep",
		Description: "Quantity, quality, and regularity of sleep + wind-down routine.",
		Suggestions: []string{
			"avoid screens and dim lights for 30 minutes before bed",
			"keep wake time within ±30 minutes every day for 7 days",
			"set a caffeine cutoff 8 hours before bedtime",
		},
	},
	{
		Key:         "movement",
		Label:       "Exercise & Movement",
		Description: "Everyday movement/exercise that fits your life and supports your health & wellbeing.",
		Suggestions: []string{
			"walk 10 minutes after lunch on Mon/Wed/Fri this week",
			"do 1 'movement snack' (stairs or 20 squats) every afternoon",
			"stretch 5 minutes after dinner, 4x/week",
		},
	},
	{
		Key:         "stress",
		Label:       "Stress Management",
		Description: "How you recognise stress and use strategies to reduce/cope.",
		Suggestions: []string{
			"practice 2 minutes of 4-in / 6-out breathing mid-day",
			"do an evening brain dump: list tomorrow's top 3 before bed",
			"schedule a 10-minute recovery block (walk, stretch, music) on busy days",
		},
	},
	{
		Key:         "thoughts",
		Label:       "Thought Patterns",
		Description: "Mindset and self-talk patterns that shape motivation and resilience.",
		Suggestions: []string{
			"daily reframe: write one unhelpful thought into a balanced alternative",
			"end-of-day note: one thing that went right",
			"use 'yet' language: add '...yet' to any 'I can't' thought",
		},
	},
	{
		Key:         "emotions",
		Label:       "Emotional Regulation",
		Description: "Ability to pause, notice, and regulate emotions (incl. around food).",
		Suggestions: []string{
			"evening 'pause before snacking': water + 3 breaths + choose a planned snack",
			"name it to tame it: label one emotion when it shows up",
			"list two non-food soothers (short walk, shower, stretch) and try one nightly",
		},
	},
	{
		Key:         "social",
		Label:       "Social Connection",
		Description: "Support, connection, and belonging with people/communities.",
		Suggestions: []string{
			"send one short check-in message today",
			"book a 10-minute call/walk with someone this week",
			"join/re-join one group activity this month (class, club, faith/community)",
		},
	},
}

// Count is the fixed catalog size. The baseline flow rates every pillar
// exactly once.
const Count = 8

// Catalog returns the pillars in rating order. Callers must not mutate the
// returned slice.
func Catalog() []Pillar {
	return catalog
}

// ByKey looks up a pillar by its stable key.
func ByKey(key string) (Pillar, bool) {
	for _, p := range catalog {
		if p.Key == key {
			return p, true
		}
	}
	return Pillar{}, false
}

// LabelByKey returns the display label for a key, or the key itself when
// unknown so callers always have something printable.
func LabelByKey(key string) string {
	if p, ok := ByKey(key); ok {
		return p.Label
	}
	return key
}

// Resolve maps free user text to a pillar key. Matching priority: exact key,
// exact label (case-insensitive), then the user text as a case-insensitive
// substring of a label. The first catalog-order match wins, so ambiguous
// fragments resolve deterministically.
func Resolve(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}

	for _, p := range catalog {
		if t == p.Key {
			return p.Key, true
		}
	}
	for _, p := range catalog {
		if t == strings.ToLower(p.Label) {
			return p.Key, true
		}
	}
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Label), t) {
			return p.Key, true
		}
	}
	return "", false
}
