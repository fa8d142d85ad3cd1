package crop

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/crop-advisor/internal/weather"
)

func snapshot(temp float64, cond string, humidity float64) weather.Snapshot {
	return weather.Snapshot{
		Temperature: weather.Celsius(temp),
		Condition:   cond,
		Humidity:    weather.HumidityOf(humidity),
	}
}

func TestLoadRulesFallbackWhenMissing(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), RulesFileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 fallback rules, got %d", len(rules))
	}
	if rules[0].Crop != "Wheat" || rules[1].Crop != "Rice" {
		t.Fatalf("expected Wheat then Rice, got %q then %q", rules[0].Crop, rules[1].Crop)
	}
	if diff := cmp.Diff(DefaultRules(), rules); diff != "" {
		t.Fatalf("fallback rules mismatch (-want +got):\n%s", diff)
	}

	_, fallback, err := LoadRulesReportingFallback(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || !fallback {
		t.Fatalf("expected fallback to be reported, got %v (%v)", fallback, err)
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), RulesFileName)
	content := `[
		{"crop": "Cotton", "advice": "Needs warm days.", "conditions": {"weather_main": "Clear", "temp_min_celsius": 21, "soil": "black"}},
		{"conditions": {"weather_main": "Clouds", "temp_min_celsius": 15.5, "soil": "sandy"}}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, fallback, err := LoadRulesReportingFallback(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback {
		t.Fatalf("did not expect fallback for an existing file")
	}

	want := []Rule{
		{Crop: "Cotton", Advice: "Needs warm days.", Conditions: Conditions{WeatherMain: "Clear", TempMinCelsius: 21, Soil: "black"}},
		{Crop: DefaultCrop, Advice: DefaultAdvice, Conditions: Conditions{WeatherMain: "Clouds", TempMinCelsius: 15.5, Soil: "sandy"}},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRulesMalformedDoesNotFallBack(t *testing.T) {
	cases := map[string]string{
		"syntax":        `[{"crop": "Wheat",`,
		"not an array":  `{"crop": "Wheat"}`,
		"null":          `null`,
		"bad threshold": `[{"crop": "Wheat", "conditions": {"temp_min_celsius": "ten"}}]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), RulesFileName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write rules: %v", err)
			}
			rules, err := LoadRules(path)
			if !errors.Is(err, ErrMalformedRules) {
				t.Fatalf("expected ErrMalformedRules, got %v", err)
			}
			if rules != nil {
				t.Fatalf("expected no rules on malformed input, got %d", len(rules))
			}
		})
	}
}

func TestParseRulesEmptyArray(t *testing.T) {
	rules, err := ParseRules([]byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(rules))
	}
}

func TestRecommendWheatCaseInsensitiveSoil(t *testing.T) {
	res, err := Recommend(snapshot(12, "Clear", 40), "Loamy", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	want := []Recommendation{{
		Crop:             "Wheat",
		Advice:           "Ideal for current conditions. Requires moderate watering.",
		WeatherCondition: "Clear",
		Temperature:      "12°C",
	}}
	if diff := cmp.Diff(want, res.Recommendations); diff != "" {
		t.Fatalf("recommendations mismatch (-want +got):\n%s", diff)
	}
	if *res.Weather.Temperature != 12 || res.Weather.Humidity.Percent != 40 {
		t.Fatalf("unexpected weather summary: %+v", res.Weather)
	}
}

func TestRecommendRice(t *testing.T) {
	res, err := Recommend(snapshot(25, "Rain", 80), "clay", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusSuccess || len(res.Recommendations) != 1 || res.Recommendations[0].Crop != "Rice" {
		t.Fatalf("expected Rice recommendation, got %+v", res)
	}
	if res.Recommendations[0].Temperature != "25°C" {
		t.Fatalf("expected 25°C, got %s", res.Recommendations[0].Temperature)
	}
}

func TestRecommendNoMatch(t *testing.T) {
	res, err := Recommend(snapshot(5, "Snow", 10), "sandy", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusInfo {
		t.Fatalf("expected info, got %s", res.Status)
	}
	if res.Message != NoMatchMessage {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if diff := cmp.Diff(NoMatchSuggestions(), res.Suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if res.Recommendations != nil {
		t.Fatalf("expected no recommendations, got %v", res.Recommendations)
	}
}

func TestRecommendEmptyRulesNeverErrors(t *testing.T) {
	for _, snap := range []weather.Snapshot{snapshot(30, "Clear", 20), {Condition: "Clear"}} {
		res, err := Recommend(snap, "loamy", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != StatusInfo {
			t.Fatalf("expected info, got %s", res.Status)
		}
	}
}

func TestRecommendThresholdIsInclusive(t *testing.T) {
	res, err := Recommend(snapshot(10, "clear", 50), "LOAMY", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("expected a match at exactly the minimum temperature")
	}

	res, err = Recommend(snapshot(9.9, "Clear", 50), "loamy", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusInfo {
		t.Fatalf("expected no match below the minimum temperature")
	}
}

func TestRecommendKeepsOrderAndDuplicates(t *testing.T) {
	rules := []Rule{
		{Crop: "Millet", Advice: "a", Conditions: Conditions{WeatherMain: "Clear", TempMinCelsius: 25, Soil: "sandy"}},
		{Crop: "Groundnut", Advice: "b", Conditions: Conditions{WeatherMain: "Clear", TempMinCelsius: 20, Soil: "sandy"}},
		{Crop: "Wheat", Advice: "c", Conditions: Conditions{WeatherMain: "Clear", TempMinCelsius: 10, Soil: "loamy"}},
		{Crop: "Millet", Advice: "d", Conditions: Conditions{WeatherMain: "CLEAR", TempMinCelsius: 0, Soil: "Sandy"}},
	}
	before := append([]Rule(nil), rules...)

	first, err := Recommend(snapshot(27.5, "Clear", 30), "sandy", rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, r := range first.Recommendations {
		got = append(got, r.Crop+":"+r.Advice)
	}
	if diff := cmp.Diff([]string{"Millet:a", "Groundnut:b", "Millet:d"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if first.Recommendations[0].Temperature != "27.5°C" {
		t.Fatalf("expected 27.5°C, got %s", first.Recommendations[0].Temperature)
	}

	second, err := Recommend(snapshot(27.5, "Clear", 30), "sandy", rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-evaluation differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, rules); diff != "" {
		t.Fatalf("rules were modified (-before +after):\n%s", diff)
	}
}

func TestRecommendMatchesPredicate(t *testing.T) {
	rules := DefaultRules()
	conditions := []string{"Clear", "clear", "Rain", "Snow", "Clouds"}
	soils := []string{"loamy", "Clay", "sandy"}
	temps := []float64{-3, 10, 15, 20, 35}

	for _, cond := range conditions {
		for _, soil := range soils {
			for _, temp := range temps {
				res, err := Recommend(snapshot(temp, cond, 50), soil, rules)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				var want []string
				for _, r := range rules {
					if strings.EqualFold(cond, r.Conditions.WeatherMain) && temp >= r.Conditions.TempMinCelsius && strings.EqualFold(soil, r.Conditions.Soil) {
						want = append(want, r.Crop)
					}
				}
				var got []string
				for _, rec := range res.Recommendations {
					got = append(got, rec.Crop)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("%s/%s/%g mismatch (-want +got):\n%s", cond, soil, temp, diff)
				}
				if (len(want) == 0) != (res.Status == StatusInfo) {
					t.Fatalf("%s/%s/%g: status %s inconsistent with %d matches", cond, soil, temp, res.Status, len(want))
				}
			}
		}
	}
}

func TestRecommendMissingTemperature(t *testing.T) {
	snap := weather.Snapshot{Condition: "Clear"}
	if _, err := Recommend(snap, "loamy", DefaultRules()); !errors.Is(err, ErrMissingTemperature) {
		t.Fatalf("expected ErrMissingTemperature, got %v", err)
	}

	// No rule reaches the threshold comparison, so nothing fails.
	res, err := Recommend(weather.Snapshot{Condition: "Haze"}, "loamy", DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusInfo {
		t.Fatalf("expected info, got %s", res.Status)
	}
}

func TestFormatTemperature(t *testing.T) {
	cases := map[float64]string{12: "12°C", 12.5: "12.5°C", -0.75: "-0.75°C", 31.06: "31.06°C"}
	for in, want := range cases {
		if got := FormatTemperature(in); got != want {
			t.Errorf("FormatTemperature(%v) = %q, want %q", in, got, want)
		}
	}

	var upstream float64
	if err := json.Unmarshal([]byte(`12.0`), &upstream); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := FormatTemperature(upstream); got != "12°C" {
		t.Fatalf("expected an integral reading to drop its fraction, got %q", got)
	}
}

func TestRuleRoundTripKeepsWireNames(t *testing.T) {
	b, err := json.Marshal(DefaultRules()[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"crop":"Wheat","advice":"Ideal for current conditions. Requires moderate watering.","conditions":{"weather_main":"Clear","temp_min_celsius":10,"soil":"loamy"}}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}
}
