package email

import (
	"strings"
	"testing"
	"time"
)

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func TestComposer_AnalysisComplete(t *testing.T) {
	t.Parallel()

	composer, err := NewComposer("https://app.brainindex.app/")
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}

	tests := []struct {
		name         string
		data         AnalysisCompleteData
		wantSubject  string
		wantContains []string
	}{
		{
			name: "with score",
			data: AnalysisCompleteData{
				BrandName:    "Acme Corp",
				OverallScore: intPtr(72),
				CompletedAt:  time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC),
			},
			wantSubject: "Your AI visibility analysis for Acme Corp is ready",
			wantContains: []string{
				"Analysis Complete: Acme Corp",
				"72/100",
				"https://app.brainindex.app/dashboard",
			},
		},
		{
			name: "without score",
			data: AnalysisCompleteData{
				BrandName:   "Mystery Brand",
				CompletedAt: time.Now(),
			},
			wantSubject:  "Your AI visibility analysis for Mystery Brand is ready",
			wantContains: []string{"N/A/100"},
		},
		{
			name: "with AI intro",
			data: AnalysisCompleteData{
				BrandName:    "Acme",
				OverallScore: intPtr(50),
				CompletedAt:  time.Now(),
				Intro:        "Great news about Acme!",
			},
			wantContains: []string{"Great news about Acme!"},
		},
		{
			name: "escapes html in brand name",
			data: AnalysisCompleteData{
				BrandName:   "<script>alert(1)</script>",
				CompletedAt: time.Now(),
			},
			wantContains: []string{"&lt;script&gt;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subject, html, err := composer.AnalysisComplete(tt.data)
			if err != nil {
				t.Fatalf("AnalysisComplete: %v", err)
			}
			if tt.wantSubject != "" && subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(html, want) {
					t.Errorf("html missing %q", want)
				}
			}
			if tt.name == "escapes html in brand name" && strings.Contains(html, "<script>alert") {
				t.Error("brand name was not escaped")
			}
		})
	}
}

func TestComposer_WeeklySummary(t *testing.T) {
	t.Parallel()

	composer, err := NewComposer("https://app.brainindex.app")
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}

	tests := []struct {
		name         string
		data         WeeklySummaryData
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "full summary",
			data: WeeklySummaryData{
				TotalAnalyses: 5,
				AverageScore:  floatPtr(64.26),
				TopBrandName:  "Acme Corp",
				TopBrandScore: intPtr(88),
			},
			wantContains: []string{
				">5<",
				"64.3",
				"Acme Corp",
				"88/100",
				"https://app.brainindex.app/dashboard/my-analyses",
			},
		},
		{
			name: "no analyses this week",
			data: WeeklySummaryData{
				TotalAnalyses: 0,
			},
			wantContains: []string{">0<", "N/A"},
			wantAbsent:   []string{"Top Performing Brand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subject, html, err := composer.WeeklySummary(tt.data)
			if err != nil {
				t.Fatalf("WeeklySummary: %v", err)
			}
			if subject != "Your weekly AI visibility report" {
				t.Errorf("unexpected subject %q", subject)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(html, want) {
					t.Errorf("html missing %q", want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(html, absent) {
					t.Errorf("html should not contain %q", absent)
				}
			}
		})
	}
}

func TestScoreDisplay(t *testing.T) {
	t.Parallel()

	if got := scoreDisplay(nil); got != "N/A" {
		t.Errorf("scoreDisplay(nil) = %q", got)
	}
	if got := scoreDisplay(intPtr(42)); got != "42" {
		t.Errorf("scoreDisplay(42) = %q", got)
	}
	if got := averageDisplay(nil); got != "N/A" {
		t.Errorf("averageDisplay(nil) = %q", got)
	}
	if got := averageDisplay(floatPtr(7.25)); got != "7.2" {
		t.Errorf("averageDisplay(7.25) = %q", got)
	}
}
