// Package document renders payout proof documents.
package document

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/incentive_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/incentive_wallet_app/internal/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"
)

// Config controls the headless browser used for printing.
type Config struct {
	ChromiumPath string
	Timeout      time.Duration
}

// PDFRenderer prints redemption proofs through headless Chromium.
type PDFRenderer struct {
	cfg Config
}

func NewPDFRenderer(cfg Config) *PDFRenderer {
	return &PDFRenderer{cfg: cfg}
}

var _ portssvc.ProofRenderer = (*PDFRenderer)(nil)

// RenderRedemptionProof returns an error when Chromium is unavailable; callers treat that as best effort.
func (r *PDFRenderer) RenderRedemptionProof(ctx context.Context, proof domain.RedemptionProof) ([]byte, error) {
	html, err := renderProofHTML(proof)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.cfg.ChromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.cfg.ChromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, timeout)
	defer cancelTimeout()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, perr := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if perr == nil {
				pdf = buf
			}
			return perr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp run failed: %w", err)
	}
	return pdf, nil
}

type proofData struct {
	Redemption  domain.RedemptionRequest
	Employee    domain.User
	Credit      domain.WalletTransaction
	Timeline    []domain.TimelineEntry
	GeneratedAt string
}

var proofTemplate = template.Must(template.New("proof").Funcs(template.FuncMap{
	"money": func(amount decimal.Decimal, currency domain.Currency) string {
		return utils.FormatAmount(amount, currency)
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"deref": func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	},
}).Parse(proofHTML))

func renderProofHTML(proof domain.RedemptionProof) (string, error) {
	var buf bytes.Buffer
	err := proofTemplate.Execute(&buf, proofData{
		Redemption:  proof.Redemption,
		Employee:    proof.Employee,
		Credit:      proof.Credit,
		Timeline:    proof.Timeline,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 MST"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const proofHTML = `
<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 24px; color: #0f172a; }
    h1 { margin: 0 0 8px; }
    .card { border: 1px solid #e2e8f0; border-radius: 8px; padding: 12px; margin-bottom: 12px; }
    .label { font-size: 12px; color: #475569; }
    .value { font-size: 14px; margin-bottom: 4px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { padding: 6px; border-bottom: 1px solid #e2e8f0; text-align: left; font-size: 12px; }
    th { background: #f8fafc; }
  </style>
</head>
<body>
  <h1>Redemption Request</h1>
  <div class="label">Generated {{.GeneratedAt}}</div>

  <div class="card">
    <div class="label">Employee</div>
    <div class="value">{{.Employee.Name}} ({{.Employee.UserID}})</div>
    <div class="value">{{.Employee.Email}}</div>
  </div>

  <div class="card">
    <div class="label">Redemption</div>
    <div class="value">ID: {{.Redemption.RedemptionID}}</div>
    <div class="value">Amount: {{money .Redemption.Amount .Redemption.Currency}}</div>
    <div class="value">Status: {{.Redemption.Status}}</div>
    <div class="value">Requested: {{stamp .Redemption.CreatedAt}}</div>
    {{if .Redemption.Notes}}<div class="value">Notes: {{.Redemption.Notes}}</div>{{end}}
  </div>

  <div class="card">
    <div class="label">Redeemed credit</div>
    <div class="value">Transaction: {{.Credit.TransactionID}}</div>
    <div class="value">Amount: {{money .Credit.Amount .Credit.Currency}}</div>
    <div class="value">Source request: {{deref .Credit.SourceRequestID}}</div>
  </div>

  {{if .Timeline}}
  <table>
    <thead><tr><th>#</th><th>Step</th><th>By</th><th>Message</th><th>At</th></tr></thead>
    <tbody>
    {{range .Timeline}}
      <tr><td>{{.Sequence}}</td><td>{{.Step}}</td><td>{{.ActorRole}} {{.ActorID}}</td><td>{{.Message}}</td><td>{{stamp .CreatedAt}}</td></tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</body>
</html>
`
