package ingestion

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names written by the AM and PM templates.
const (
	FieldSleepHours       = "SleepHours"
	FieldMood             = "Mood"
	FieldEnergy           = "Energy"
	FieldNotes            = "Notes"
	FieldTrainingType     = "TrainingType"
	FieldRPE              = "RPE"
	FieldSteps            = "Steps"
	FieldProtein          = "Protein_g"
	FieldFiber            = "Fiber_g"
	FieldWater            = "Water_L"
	FieldCaffeine         = "Caffeine_mg"
	FieldCaffeineAfter2pm = "CaffeineAfter2pm"
	FieldAlcohol          = "Alcohol_units"
	FieldGISymptoms       = "GI_Symptoms"
	FieldSupplements      = "Supplements"
	FieldFlags            = "Flags"
)

type field struct {
	name  string
	value any
}

// extractor attempts one pattern against normalized text and yields the
// fields it captured. A miss yields nothing.
type extractor func(text string) []field

var amExtractors = []extractor{
	floatField(FieldSleepHours, `(?i)Sleep\s+(\d{1,2}(?:\.\d+)?)\s*h`),
	intField(FieldMood, `(?i)Mood\s+([1-5])`),
	intField(FieldEnergy, `(?i)Energy\s+([1-5])`),
	textField(FieldNotes, `(?i)Notes:\s*(.*)$`),
}

var pmExtractors = []extractor{
	trainingFields(`(?i)Training\s+([SCMR])\s*@RPE\s*(\d{1,2})`),
	intField(FieldSteps, `(?i)Steps\s+(\d+)`),
	intField(FieldProtein, `(?i)Protein\s+(\d{1,4})\s*g`),
	intField(FieldFiber, `(?i)Fiber\s+(\d{1,4})\s*g`),
	floatField(FieldWater, `(?i)Water\s+(\d{1,2}(?:\.\d+)?)\s*L`),
	intField(FieldCaffeine, `(?i)Caffeine\s+(\d{1,4})\s*mg`),
	upperField(FieldCaffeineAfter2pm, `(?i)after14:00\s+(Y|N)`),
	floatField(FieldAlcohol, `(?i)Alcohol\s+(\d+(?:\.\d+)?)\s*units?`),
	// \b keeps "GI" from matching inside words such as "Logistics".
	textField(FieldGISymptoms, `(?i)\bGI\s+([^|]+)`),
	textField(FieldSupplements, `(?i)Supplements/Creatine\s+([^|]+)`),
	textField(FieldFlags, `(?i)Flags\s+(.+)$`),
}

func intField(name, expr string) extractor {
	re := regexp.MustCompile(expr)
	return func(text string) []field {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return []field{{name, n}}
	}
}

func floatField(name, expr string) extractor {
	re := regexp.MustCompile(expr)
	return func(text string) []field {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil
		}
		return []field{{name, f}}
	}
}

func textField(name, expr string) extractor {
	re := regexp.MustCompile(expr)
	return func(text string) []field {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return []field{{name, strings.TrimSpace(m[1])}}
	}
}

func upperField(name, expr string) extractor {
	re := regexp.MustCompile(expr)
	return func(text string) []field {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return []field{{name, strings.ToUpper(m[1])}}
	}
}

// trainingFields captures TrainingType and RPE together or not at all.
func trainingFields(expr string) extractor {
	re := regexp.MustCompile(expr)
	return func(text string) []field {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		rpe, err := strconv.Atoi(m[2])
		if err != nil {
			return nil
		}
		return []field{
			{FieldTrainingType, strings.ToUpper(m[1])},
			{FieldRPE, rpe},
		}
	}
}
