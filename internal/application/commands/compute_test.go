package commands

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dasha/internal/application"
	"dasha/internal/domain"
)

const j2000 = 2451545.0

func TestComputeBalanceCommand(t *testing.T) {
	res, err := NewComputeBalanceCommand(20.0 / 3.0).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Balance.Lord != domain.Ketu {
		t.Errorf("expected Ketu, got %s", res.Balance.Lord)
	}
	if math.Abs(res.Balance.BalanceYears-3.5) > 1e-9 {
		t.Errorf("expected 3.5 years, got %v", res.Balance.BalanceYears)
	}
	if !contains(res.Message, "Ashwini") {
		t.Errorf("expected nakshatra in message, got %q", res.Message)
	}

	if _, err := NewComputeBalanceCommand(math.NaN()).Execute(context.Background()); !errors.Is(err, application.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildTimelineCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     BuildTimelineCommand
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid",
			cmd:  BuildTimelineCommand{BirthJD: j2000, Years: 120, Depth: 3},
		},
		{
			name:    "zero birth JD",
			cmd:     BuildTimelineCommand{BirthJD: 0, Years: 120, Depth: 3},
			wantErr: true,
			errMsg:  "birth JD must be a positive Julian Day",
		},
		{
			name:    "zero years",
			cmd:     BuildTimelineCommand{BirthJD: j2000, Years: 0, Depth: 3},
			wantErr: true,
			errMsg:  "years must be > 0",
		},
		{
			name:    "depth too deep",
			cmd:     BuildTimelineCommand{BirthJD: j2000, Years: 120, Depth: 6},
			wantErr: true,
			errMsg:  "between 1 and 5",
		},
		{
			name:    "negative days per year",
			cmd:     BuildTimelineCommand{BirthJD: j2000, Years: 120, Depth: 1, DaysPerYear: -365},
			wantErr: true,
			errMsg:  "days per year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildTimelineCommand_UsesCache(t *testing.T) {
	cache := newMapCache()
	ctx := context.Background()

	first, err := NewBuildTimelineCommand(cache, nil, 0, j2000, 120, 2, 0).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Error("first build should not come from the cache")
	}

	second, err := NewBuildTimelineCommand(cache, nil, 0, j2000, 120, 2, domain.DefaultDaysPerYear).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Error("identical request with the default year length should hit the cache")
	}
	if len(second.Timeline.Periods) != 9 {
		t.Errorf("expected 9 Maha periods, got %d", len(second.Timeline.Periods))
	}

	third, err := NewBuildTimelineCommand(cache, nil, 0, j2000, 120, 3, 0).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Cached {
		t.Error("a different depth must not hit the cache")
	}
}

func TestCurrentStateCommand(t *testing.T) {
	ctx := context.Background()

	res, err := NewCurrentStateCommand(0, j2000, j2000+10.5*domain.DefaultDaysPerYear, 2, 0).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []domain.Lord{res.State.Lord(domain.LevelMaha), res.State.Lord(domain.LevelAntar)}
	if diff := cmp.Diff([]domain.Lord{domain.Venus, domain.Sun}, got); diff != "" {
		t.Errorf("lords mismatch (-want +got):\n%s", diff)
	}
	if res.Unresolved != nil {
		t.Errorf("unexpected resolution error: %v", res.Unresolved)
	}

	tl, err := domain.BuildTimeline(domain.TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 120, Depth: 2})
	if err != nil {
		t.Fatalf("BuildTimeline failed: %v", err)
	}
	cmd := &CurrentStateCommand{Timeline: tl, TargetJD: j2000 + 10.5*domain.DefaultDaysPerYear}
	fromTimeline, err := cmd.Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromTimeline.State.Lord(domain.LevelAntar) != domain.Sun {
		t.Errorf("expected Sun from the timeline, got %s", fromTimeline.State.Lord(domain.LevelAntar))
	}

	cmd.TargetJD = tl.End() + 1
	if _, err := cmd.Execute(ctx); !errors.Is(err, domain.ErrTargetOutOfRange) {
		t.Errorf("expected ErrTargetOutOfRange, got %v", err)
	}
}

func TestCurrentStateCommand_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cmd  *CurrentStateCommand
	}{
		{"zero target", NewCurrentStateCommand(0, j2000, 0, 2, 0)},
		{"NaN longitude", NewCurrentStateCommand(math.NaN(), j2000, j2000, 2, 0)},
		{"depth six", NewCurrentStateCommand(0, j2000, j2000, 6, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.Execute(context.Background())
			if !application.IsInputError(err) {
				t.Errorf("expected an input error, got %v", err)
			}
		})
	}
}

func TestResolveSubLordsCommand(t *testing.T) {
	res, err := NewResolveSubLordsCommand(0.8, 3).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StarLord != domain.Ketu || res.SubLord != domain.Venus {
		t.Errorf("expected Ketu/Venus, got %s/%s", res.StarLord, res.SubLord)
	}
	if res.SubSubLord == domain.NoLord {
		t.Error("depth 3 should resolve a sub-sub lord")
	}

	if _, err := NewResolveSubLordsCommand(0, 4).Execute(context.Background()); err == nil {
		t.Error("expected error for depth 4")
	}
}

func TestSubTableCommand(t *testing.T) {
	ctx := context.Background()

	all, err := NewSubTableCommand(0).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 243 {
		t.Errorf("expected 243 rows, got %d", len(all))
	}

	rohini, err := NewSubTableCommand(4).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rohini) != domain.LordCount {
		t.Fatalf("expected 9 rows, got %d", len(rohini))
	}
	for _, row := range rohini {
		if row.Nakshatra.Name != "Rohini" || row.StarLord != domain.Moon {
			t.Errorf("unexpected row %+v", row)
		}
	}
	if rohini[0].SubLord != domain.Moon || rohini[1].SubLord != domain.Mars {
		t.Errorf("expected Rohini subs to start Moon, Mars; got %s, %s", rohini[0].SubLord, rohini[1].SubLord)
	}

	if _, err := NewSubTableCommand(28).Execute(ctx); err == nil {
		t.Error("expected error for nakshatra 28")
	}
}

func TestSummarizeCommand(t *testing.T) {
	s, err := NewSummarizeCommand(0, j2000, j2000+8*domain.DefaultDaysPerYear, 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Birth.Lord != domain.Ketu || s.Maha.Lord != domain.Venus {
		t.Errorf("expected birth Ketu and Maha Venus, got %s and %s", s.Birth.Lord, s.Maha.Lord)
	}
	if math.Abs(s.Maha.BalanceYears-19) > 1e-9 {
		t.Errorf("expected 19 years of Venus left, got %v", s.Maha.BalanceYears)
	}

	if _, err := NewSummarizeCommand(0, j2000, -1, 0).Execute(context.Background()); err == nil {
		t.Error("expected error for a negative current JD")
	}
}
