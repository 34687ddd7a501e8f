package sportsdb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeList(t *testing.T) {
	t.Run("PopulatedList", func(t *testing.T) {
		body := []byte(`{"events":[
			{"idEvent":"602130","strEvent":"Bahrain Grand Prix","intRound":"1","strSeason":"2024","dateEvent":"2024-03-02"},
			{"idEvent":"602131","strEvent":"Saudi Arabian Grand Prix","intRound":"2","strSeason":"2024"}
		]}`)

		var events []Event
		if err := decodeList(body, "events", &events); err != nil {
			t.Fatalf("decodeList() error = %v", err)
		}

		want := []Event{
			{ID: "602130", Name: "Bahrain Grand Prix", Round: "1", Season: "2024", Date: "2024-03-02"},
			{ID: "602131", Name: "Saudi Arabian Grand Prix", Round: "2", Season: "2024"},
		}
		if diff := cmp.Diff(want, events); diff != "" {
			t.Errorf("decodeList() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AbsentKey", func(t *testing.T) {
		var leagues []League
		if err := decodeList([]byte(`{}`), "leagues", &leagues); err != nil {
			t.Errorf("decodeList() error = %v, want nil", err)
		}
		if len(leagues) != 0 {
			t.Errorf("decodeList() = %v, want empty", leagues)
		}
	})

	t.Run("NullKey", func(t *testing.T) {
		var seasons []Season
		if err := decodeList([]byte(`{"seasons":null}`), "seasons", &seasons); err != nil {
			t.Errorf("decodeList() error = %v, want nil", err)
		}
		if len(seasons) != 0 {
			t.Errorf("decodeList() = %v, want empty", seasons)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		var events []Event
		if err := decodeList([]byte(`<html>`), "events", &events); err == nil {
			t.Error("decodeList() error = nil, want malformed body error")
		}
	})

	t.Run("WrongShapeUnderKey", func(t *testing.T) {
		var events []Event
		if err := decodeList([]byte(`{"events":"oops"}`), "events", &events); err == nil {
			t.Error("decodeList() error = nil, want shape error")
		}
	})
}
