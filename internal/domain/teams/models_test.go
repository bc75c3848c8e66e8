package teams

import (
	"encoding/json"
	"testing"
)

func TestStatsFlattensAverages(t *testing.T) {
	stats := NewStats(
		Team{ID: 2, FullName: "Boston Celtics", Conference: "East", Division: "Atlantic"},
		Averages{PPG: 90, RPG: 72, APG: 36, WinRate: 0.5},
	)

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"id": float64(2), "name": "Boston Celtics", "conference": "East", "division": "Atlantic",
		"ppg": float64(90), "rpg": float64(72), "apg": float64(36), "winRate": 0.5,
	}
	for k, v := range want {
		if decoded[k] != v {
			t.Fatalf("expected %s=%v, got %v (%s)", k, v, decoded[k], data)
		}
	}
}
