package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/prr/internal/models"
)

func renderSample(t *testing.T, mutate func(sub *models.ReviewSubmission)) string {
	t.Helper()
	sub := sampleSubmission()
	if mutate != nil {
		mutate(sub)
	}
	html, err := HTML(testAssembler().Assemble(sub))
	require.NoError(t, err)
	return html
}

func TestRenderHTML_Structure(t *testing.T) {
	html := renderSample(t, nil)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<h1>Project Review Report</h1>")
	assert.Contains(t, html, `<div class="section-title">Project Details</div>`)
	assert.Contains(t, html, `<span class="field-value file-info">a.txt</span>`)
	assert.Contains(t, html, `<a href="https://git.example.com/payments/pull/42">https://git.example.com/payments/pull/42</a>`)
	assert.Contains(t, html, "<th>P0</th>")
	assert.Contains(t, html, "<td>120</td>")
	assert.Contains(t, html, "3/14/2026, 9:30:05 AM")

	// Sections appear in document order.
	last := -1
	for _, title := range []string{SectionProjectDetails, SectionCodeReview, SectionSonarQube, SectionVAPT,
		SectionTestResults, SectionPriority, SectionSeverity, SectionReferenceLinks, SectionGenerationInfo} {
		idx := strings.Index(html, ">"+title+"<")
		require.GreaterOrEqual(t, idx, 0, title)
		assert.Greater(t, idx, last, title)
		last = idx
	}
}

func TestRenderHTML_EscapesUserText(t *testing.T) {
	html := renderSample(t, func(sub *models.ReviewSubmission) {
		sub.Project = `<script>alert("x")</script>`
		sub.Sprint = "Q&A"
		sub.ApproverName = `<b>boss</b>`
		sub.CommitID = `"><img src=x onerror=alert(1)>`
		sub.VAPTReportFiles[0].Name = `<iframe src="evil"></iframe>.txt`
	})

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "<iframe")
	assert.NotContains(t, html, "<b>boss")
	assert.Contains(t, html, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, html, "Q&amp;A")
}

func TestRenderHTML_SanitizesLinkTargets(t *testing.T) {
	html := renderSample(t, func(sub *models.ReviewSubmission) {
		sub.PRURL = "javascript:alert(1)"
	})

	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, "#ZgotmplZ")
}

func TestRenderHTML_OmitsDisabledSections(t *testing.T) {
	html := renderSample(t, func(sub *models.ReviewSubmission) {
		sub.PriorityIssues = false
	})

	assert.NotContains(t, html, SectionPriority)
	assert.Contains(t, html, SectionSeverity)
}

func TestRenderHTML_Writer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, testAssembler().Assemble(sampleSubmission())))
	assert.Contains(t, buf.String(), "</html>")
}
