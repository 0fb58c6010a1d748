package report

import (
	"bytes"
	"fmt"
	"html/template"

	jsoniter "github.com/json-iterator/go"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Portfolio Summary</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
</head>
<body>
  <h1>Portfolio Summary (Total ${{.Total}})</h1>
  <canvas id="chart" width="800" height="400"></canvas>
  <script>
    const labels = {{.Labels}};
    const wallet = {{.Wallet}};
    const lending = {{.Lending}};
    const ctx = document.getElementById('chart').getContext('2d');
    new Chart(ctx, {
      type: 'bar',
      data: {
        labels: labels,
        datasets: [
          {label: 'Wallet USD', data: wallet, backgroundColor: 'rgba(54,162,235,0.5)'},
          {label: 'Lending Net USD', data: lending, backgroundColor: 'rgba(255,99,132,0.5)'}
        ]
      },
      options: {
        responsive: true,
        scales: {
          x: {stacked: true},
          y: {stacked: true}
        }
      }
    });
  </script>
</body>
</html>
`))

type dashboardData struct {
	Total   string
	Labels  template.JS
	Wallet  template.JS
	Lending template.JS
}

// Dashboard renders a self-contained HTML page with a stacked bar chart of
// wallet and lending totals per address.
func Dashboard(snap *entity.PortfolioSnapshot) ([]byte, error) {
	labels := make([]string, 0, len(snap.Accounts))
	wallet := make([]float64, 0, len(snap.Accounts))
	lending := make([]float64, 0, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		labels = append(labels, utils.AddrPrefix(acc.Address))
		wallet = append(wallet, acc.WalletTotalUSD)
		lending = append(lending, acc.DeFi.Lending.NetUSD)
	}

	data := dashboardData{Total: fmt.Sprintf("%.2f", snap.Totals.PortfolioTotal)}
	for _, bind := range []struct {
		dst *template.JS
		src any
	}{
		{&data.Labels, labels},
		{&data.Wallet, wallet},
		{&data.Lending, lending},
	} {
		encoded, err := json.Marshal(bind.src)
		if err != nil {
			return nil, fmt.Errorf("failed to encode chart data: %w", err)
		}
		*bind.dst = template.JS(encoded)
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}
