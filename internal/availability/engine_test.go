package availability

import (
	"testing"
	"time"

	"rezzy/pkg/model"
)

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "identical intervals",
			a:    Interval{StartMin: 540, EndMin: 600},
			b:    Interval{StartMin: 540, EndMin: 600},
			want: true,
		},
		{
			name: "partial overlap",
			a:    Interval{StartMin: 540, EndMin: 600},
			b:    Interval{StartMin: 570, EndMin: 630},
			want: true,
		},
		{
			name: "contained interval",
			a:    Interval{StartMin: 540, EndMin: 660},
			b:    Interval{StartMin: 570, EndMin: 600},
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    Interval{StartMin: 540, EndMin: 600},
			b:    Interval{StartMin: 600, EndMin: 660},
			want: false,
		},
		{
			name: "disjoint intervals",
			a:    Interval{StartMin: 540, EndMin: 600},
			b:    Interval{StartMin: 720, EndMin: 780},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateSlots(t *testing.T) {
	nineToSix := DayHours{Open: true, OpenMin: 540, CloseMin: 1080}

	t.Run("full day on the quarter hour grid", func(t *testing.T) {
		// 60 min service with a 5 min trailing buffer: last start that
		// still fits before 18:00 is 16:45.
		slots := GenerateSlots(nineToSix, 65, 15, 0, nil)
		if len(slots) != 32 {
			t.Fatalf("expected 32 slots, got %d", len(slots))
		}
		if slots[0].Time != "09:00" {
			t.Errorf("first slot = %s, want 09:00", slots[0].Time)
		}
		if slots[len(slots)-1].Time != "16:45" {
			t.Errorf("last slot = %s, want 16:45", slots[len(slots)-1].Time)
		}
		for _, s := range slots {
			if !s.Available {
				t.Errorf("slot %s unexpectedly unavailable", s.Time)
			}
		}
	})

	t.Run("closed day yields nothing", func(t *testing.T) {
		slots := GenerateSlots(DayHours{Open: false}, 65, 15, 0, nil)
		if slots != nil {
			t.Errorf("expected nil slots for closed day, got %d", len(slots))
		}
	})

	t.Run("service longer than the window yields nothing", func(t *testing.T) {
		short := DayHours{Open: true, OpenMin: 540, CloseMin: 570}
		slots := GenerateSlots(short, 60, 15, 0, nil)
		if slots != nil {
			t.Errorf("expected nil slots, got %d", len(slots))
		}
	})

	t.Run("cutoff drops earlier candidates entirely", func(t *testing.T) {
		slots := GenerateSlots(nineToSix, 65, 15, 645, nil)
		if len(slots) == 0 {
			t.Fatal("expected slots after cutoff")
		}
		if slots[0].Time != "10:45" {
			t.Errorf("first slot after cutoff = %s, want 10:45", slots[0].Time)
		}
	})

	t.Run("busy interval flags collisions but keeps the slot listed", func(t *testing.T) {
		// Existing booking 10:00-11:05.
		busy := []Interval{{StartMin: 600, EndMin: 665}}
		slots := GenerateSlots(nineToSix, 65, 15, 0, busy)

		byTime := map[string]bool{}
		for _, s := range slots {
			byTime[s.Time] = s.Available
		}

		for _, tc := range []struct {
			slot      string
			available bool
		}{
			{"09:00", false}, // would run 09:00-10:05, into the booking
			{"10:00", false},
			{"10:45", false}, // would run until 11:50, booking ends 11:05
			{"11:15", true},
			{"12:00", true},
		} {
			got, ok := byTime[tc.slot]
			if !ok {
				t.Fatalf("slot %s missing from result", tc.slot)
			}
			if got != tc.available {
				t.Errorf("slot %s available = %v, want %v", tc.slot, got, tc.available)
			}
		}
	})
}

func TestSameDayCutoff(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "rounds up to next grid step",
			now:  time.Date(2026, 3, 10, 10, 7, 0, 0, time.UTC),
			want: 645, // 10:37 rounds to 10:45
		},
		{
			name: "exact grid minute stays put",
			now:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			want: 630, // 10:30
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SameDayCutoff(tt.now, 30*time.Minute, 15)
			if got != tt.want {
				t.Errorf("SameDayCutoff() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBusyIntervals(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mk := func(startMin, endMin int, status, staffID string) *model.Booking {
		return &model.Booking{
			StartAt: At(day, startMin),
			EndAt:   At(day, endMin),
			Status:  status,
			StaffID: staffID,
		}
	}

	bookings := []*model.Booking{
		mk(540, 600, model.StatusPending, ""),
		mk(600, 660, model.StatusCancelled, ""),
		mk(660, 720, model.StatusConfirmed, "64b000000000000000000001"),
		mk(720, 780, model.StatusConfirmed, "64b000000000000000000002"),
	}

	t.Run("cancelled bookings never block", func(t *testing.T) {
		busy := BusyIntervals(bookings, "")
		if len(busy) != 3 {
			t.Fatalf("expected 3 busy intervals, got %d", len(busy))
		}
	})

	t.Run("staff filter keeps unassigned and matching rows", func(t *testing.T) {
		busy := BusyIntervals(bookings, "64b000000000000000000001")
		if len(busy) != 2 {
			t.Fatalf("expected 2 busy intervals, got %d", len(busy))
		}
		if busy[0].StartMin != 540 || busy[1].StartMin != 660 {
			t.Errorf("unexpected intervals: %+v", busy)
		}
	})
}
