package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// AnalysisCompleteData feeds the analysis completion template
type AnalysisCompleteData struct {
	BrandName    string
	OverallScore *int
	CompletedAt  time.Time
	Intro        string // optional AI-written opener
	DashboardURL string
}

// WeeklySummaryData feeds the weekly summary template
type WeeklySummaryData struct {
	TotalAnalyses int
	AverageScore  *float64
	TopBrandName  string
	TopBrandScore *int
	DashboardURL  string
}

// Composer renders notification emails from HTML templates
type Composer struct {
	frontendURL      string
	analysisComplete *template.Template
	weeklySummary    *template.Template
}

// NewComposer creates a composer. frontendURL is the dashboard base URL
// linked from every email.
func NewComposer(frontendURL string) (*Composer, error) {
	analysisComplete, err := template.New("analysis_complete").Parse(analysisCompleteTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis complete template: %w", err)
	}

	weeklySummary, err := template.New("weekly_summary").Parse(weeklySummaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse weekly summary template: %w", err)
	}

	return &Composer{
		frontendURL:      strings.TrimSuffix(frontendURL, "/"),
		analysisComplete: analysisComplete,
		weeklySummary:    weeklySummary,
	}, nil
}

// AnalysisComplete renders the analysis completion email
func (c *Composer) AnalysisComplete(data AnalysisCompleteData) (subject, html string, err error) {
	if data.DashboardURL == "" {
		data.DashboardURL = c.frontendURL + "/dashboard"
	}

	view := struct {
		AnalysisCompleteData
		ScoreDisplay string
		CompletedAtDisplay string
	}{
		AnalysisCompleteData: data,
		ScoreDisplay:         scoreDisplay(data.OverallScore),
		CompletedAtDisplay:   data.CompletedAt.Format("Jan 2, 2006 at 3:04 PM MST"),
	}

	var buf strings.Builder
	if err := c.analysisComplete.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("failed to render analysis complete email: %w", err)
	}

	subject = fmt.Sprintf("Your AI visibility analysis for %s is ready", data.BrandName)
	return subject, buf.String(), nil
}

// WeeklySummary renders the weekly summary email
func (c *Composer) WeeklySummary(data WeeklySummaryData) (subject, html string, err error) {
	if data.DashboardURL == "" {
		data.DashboardURL = c.frontendURL + "/dashboard/my-analyses"
	}

	view := struct {
		WeeklySummaryData
		AverageDisplay  string
		TopScoreDisplay string
	}{
		WeeklySummaryData: data,
		AverageDisplay:    averageDisplay(data.AverageScore),
		TopScoreDisplay:   scoreDisplay(data.TopBrandScore),
	}

	var buf strings.Builder
	if err := c.weeklySummary.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("failed to render weekly summary email: %w", err)
	}

	return "Your weekly AI visibility report", buf.String(), nil
}

func scoreDisplay(score *int) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *score)
}

func averageDisplay(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *avg)
}

const analysisCompleteTemplate = `<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
      .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
      .score { font-size: 48px; font-weight: bold; color: #667eea; text-align: center; margin: 20px 0; }
      .button { display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin-top: 20px; }
      .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Your AI Analysis is Ready</h1>
      </div>
      <div class="content">
        <h2>Analysis Complete: {{.BrandName}}</h2>
        {{if .Intro}}<p>{{.Intro}}</p>{{else}}<p>We've finished analyzing your brand's AI visibility across major platforms.</p>{{end}}

        <div class="score">{{.ScoreDisplay}}/100</div>

        <p>Your overall AI visibility score shows how well your brand appears in AI-powered search results and recommendations.</p>

        <center>
          <a href="{{.DashboardURL}}" class="button">View Full Analysis</a>
        </center>

        <p style="margin-top: 30px; color: #666;">Completed at: {{.CompletedAtDisplay}}</p>
      </div>
      <div class="footer">
        <p>You're receiving this email because you requested an AI visibility analysis.</p>
        <p>Manage your email preferences in your dashboard settings.</p>
      </div>
    </div>
  </body>
</html>`

const weeklySummaryTemplate = `<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
      .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
      .stat-box { background: white; padding: 20px; margin: 15px 0; border-radius: 8px; border-left: 4px solid #667eea; }
      .stat-number { font-size: 32px; font-weight: bold; color: #667eea; }
      .button { display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin-top: 20px; }
      .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Your Weekly AI Visibility Report</h1>
      </div>
      <div class="content">
        <h2>Here's what happened this week</h2>

        <div class="stat-box">
          <div class="stat-number">{{.TotalAnalyses}}</div>
          <p>Total Analyses Completed</p>
        </div>

        <div class="stat-box">
          <div class="stat-number">{{.AverageDisplay}}</div>
          <p>Average Visibility Score</p>
        </div>

        {{if .TopBrandName}}
        <div class="stat-box">
          <h3>Top Performing Brand</h3>
          <p><strong>{{.TopBrandName}}</strong></p>
          <p>Score: {{.TopScoreDisplay}}/100</p>
        </div>
        {{end}}

        <center>
          <a href="{{.DashboardURL}}" class="button">View All Analyses</a>
        </center>
      </div>
      <div class="footer">
        <p>You're receiving this weekly summary because you opted in to notifications.</p>
        <p>Manage your email preferences in your dashboard settings.</p>
      </div>
    </div>
  </body>
</html>`
