package ingestion

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/coreybb/checkin/models"
)

func TestDetectEntryType(t *testing.T) {
	tests := []struct {
		text string
		want models.EntryType
	}{
		{"AM: Sleep 7h", models.EntryTypeAM},
		{"am- Mood 3", models.EntryTypeAM},
		{"PM: Steps 1000", models.EntryTypePM},
		{"pm-Training S @RPE 6", models.EntryTypePM},
		{"Sleep 8h Mood 4", models.EntryTypeAM},
		{"had a long sleep", models.EntryTypeAM},
		{"Training C @RPE 5", models.EntryTypePM},
		{"PM: Sleep was bad", models.EntryTypePM},
		{"AM: Training tomorrow", models.EntryTypeAM},
		{"Sleep then Training", models.EntryTypeAM},
		{"Sleeping in", models.EntryTypeUnknown},
		{"Trainings", models.EntryTypeUnknown},
		{"AMx Sleepy", models.EntryTypeUnknown},
		{"hello there", models.EntryTypeUnknown},
		{"", models.EntryTypeUnknown},
	}
	for _, tt := range tests {
		got := DetectEntryType(tt.text)
		if got != tt.want {
			t.Errorf("DetectEntryType(%q) = %q, want %q", tt.text, got, tt.want)
		}
		if again := DetectEntryType(tt.text); again != got {
			t.Errorf("DetectEntryType(%q) not stable: %q then %q", tt.text, got, again)
		}
	}
}

func TestParseAMFullMessage(t *testing.T) {
	entry, err := Parse("AM: Sleep 7.5h | Mood 4 | Energy 3 | Notes: travel")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if entry.Type != models.EntryTypeAM {
		t.Fatalf("expected AM entry, got %q", entry.Type)
	}
	want := models.Fields{
		FieldSleepHours: 7.5,
		FieldMood:       4,
		FieldEnergy:     3,
		FieldNotes:      "travel",
	}
	if !reflect.DeepEqual(entry.Fields, want) {
		t.Fatalf("unexpected fields:\n got %#v\nwant %#v", entry.Fields, want)
	}
}

func TestParsePMFullMessage(t *testing.T) {
	text := "PM: Training S @RPE 7 | Steps 10500 | Protein 160g | Fiber 30g | Water 3L | " +
		"Caffeine 120mg after14:00 N | Alcohol 1 units | GI none | Supplements/Creatine 5g | Flags Travel"

	entry, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if entry.Type != models.EntryTypePM {
		t.Fatalf("expected PM entry, got %q", entry.Type)
	}
	want := models.Fields{
		FieldTrainingType:     "S",
		FieldRPE:              7,
		FieldSteps:            10500,
		FieldProtein:          160,
		FieldFiber:            30,
		FieldWater:            3.0,
		FieldCaffeine:         120,
		FieldCaffeineAfter2pm: "N",
		FieldAlcohol:          1.0,
		FieldGISymptoms:       "none",
		FieldSupplements:      "5g",
		FieldFlags:            "Travel",
	}
	if !reflect.DeepEqual(entry.Fields, want) {
		t.Fatalf("unexpected fields:\n got %#v\nwant %#v", entry.Fields, want)
	}
}

func TestParseOmitsMissingFields(t *testing.T) {
	entry, err := Parse("AM: Mood 2")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entry.Fields) != 1 || entry.Fields[FieldMood] != 2 {
		t.Fatalf("expected only Mood=2, got %#v", entry.Fields)
	}
	for _, name := range []string{FieldSleepHours, FieldEnergy, FieldNotes} {
		if _, ok := entry.Fields[name]; ok {
			t.Errorf("expected %s to be absent", name)
		}
	}
}

func TestParseUnknownSkipsExtraction(t *testing.T) {
	entry, err := Parse("what's up")
	if !errors.Is(err, ErrUnknownEntryType) {
		t.Fatalf("expected ErrUnknownEntryType, got %v", err)
	}
	if entry.Type != models.EntryTypeUnknown || entry.Fields != nil {
		t.Fatalf("expected empty unknown entry, got %#v", entry)
	}
}

func TestParsePMTrainingRequiresRPE(t *testing.T) {
	entry := ParsePM("PM: Training S | Steps 4000")
	if _, ok := entry.Fields[FieldTrainingType]; ok {
		t.Errorf("TrainingType captured without RPE: %#v", entry.Fields)
	}
	if _, ok := entry.Fields[FieldRPE]; ok {
		t.Errorf("RPE captured without TrainingType: %#v", entry.Fields)
	}
	if entry.Fields[FieldSteps] != 4000 {
		t.Errorf("expected Steps=4000, got %#v", entry.Fields[FieldSteps])
	}
}

func TestParsePMCaseAndWhitespace(t *testing.T) {
	entry := ParsePM("pm:  training   r@rpe8\n\twater 2.5 l  caffeine 80 MG AFTER14:00 y")
	want := models.Fields{
		FieldTrainingType:     "R",
		FieldRPE:              8,
		FieldWater:            2.5,
		FieldCaffeine:         80,
		FieldCaffeineAfter2pm: "Y",
	}
	if !reflect.DeepEqual(entry.Fields, want) {
		t.Fatalf("unexpected fields:\n got %#v\nwant %#v", entry.Fields, want)
	}
}

func TestParsePMNumericOverflowIsOmitted(t *testing.T) {
	entry := ParsePM("PM: Steps 99999999999999999999999 | Fiber 12g")
	if _, ok := entry.Fields[FieldSteps]; ok {
		t.Errorf("expected overflowing Steps to be omitted, got %#v", entry.Fields[FieldSteps])
	}
	if entry.Fields[FieldFiber] != 12 {
		t.Errorf("expected later extractors to still run, got %#v", entry.Fields)
	}
}

func TestParsePMDelimitedText(t *testing.T) {
	entry := ParsePM("PM: GI mild bloating | Supplements/Creatine 5g, D3 | Flags sick, travel")
	if got := entry.Fields[FieldGISymptoms]; got != "mild bloating" {
		t.Errorf("GI_Symptoms = %#v", got)
	}
	if got := entry.Fields[FieldSupplements]; got != "5g, D3" {
		t.Errorf("Supplements = %#v", got)
	}
	if got := entry.Fields[FieldFlags]; got != "sick, travel" {
		t.Errorf("Flags = %#v", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"  AM:\n Sleep\t\t7h   Mood 3 ", "AM: Sleep 7h Mood 3"},
		{"AM: Sleep\u00a07h", "AM: Sleep 7h"},
		{"PM: Steps\u202f10500", "PM: Steps 10500"},
		{"PM: Water\v3L\f", "PM: Water 3L"},
		{"\ufeffAM:\u2009Mood\u3000\u00a0 4\u0085", "AM: Mood 4"},
		{"\u00a0\u202f", ""},
	}
	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.text); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseUnicodeWhitespace(t *testing.T) {
	tests := []struct {
		text string
		want models.Fields
	}{
		{
			"AM: Sleep\u00a07.5h | Mood\u00a04 | Energy\u202f3 | Notes:\u00a0travel",
			models.Fields{FieldSleepHours: 7.5, FieldMood: 4, FieldEnergy: 3, FieldNotes: "travel"},
		},
		{
			"PM: Steps\u202f10500 | Water\v3L | Training\u00a0S\u00a0@RPE\u00a07",
			models.Fields{FieldSteps: 10500, FieldWater: 3.0, FieldTrainingType: "S", FieldRPE: 7},
		},
	}
	for _, tt := range tests {
		entry, err := Parse(tt.text)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.text, err)
		}
		if !reflect.DeepEqual(entry.Fields, tt.want) {
			t.Errorf("Parse(%q) fields:\n got %#v\nwant %#v", tt.text, entry.Fields, tt.want)
		}
	}
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}
	now := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)
	if got := Today(now, loc); got != "2024-03-09" {
		t.Errorf("Today in New York = %q, want 2024-03-09", got)
	}
	if got := Today(now, nil); got != "2024-03-10" {
		t.Errorf("Today with nil location = %q, want 2024-03-10", got)
	}
}
