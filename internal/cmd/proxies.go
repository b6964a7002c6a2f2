package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/learncli/internal/config"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/jimezsa/learncli/internal/network"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against the Learn suggestions endpoint."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL (default: suggestions endpoint of the configured base URL)."`
	Proxies string `help:"Comma-separated proxy URLs." env:"LEARNCLI_PROXIES"`
	Timeout int    `help:"Timeout in seconds." default:"15"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return network.ErrNoProxies
	}

	target := p.target(ctx.Config.BaseURL)
	ctx.Logger.Debug().Str("target", target).Int("proxies", len(proxies)).Msg("checking proxies")

	results := make([]ProxyCheckResult, 0, len(proxies))
	for _, proxy := range proxies {
		results = append(results, checkProxy(proxy, target, time.Duration(p.Timeout)*time.Second))
	}

	return writeProxyResults(ctx, results)
}

// target defaults to a cheap suggestions query so a proxy is judged by the
// endpoint it will actually serve.
func (p *ProxyCheckCmd) target(baseURL string) string {
	if strings.TrimSpace(p.Target) != "" {
		return p.Target
	}
	base := strings.TrimRight(firstNonEmpty(baseURL, config.DefaultBaseURL), "/")
	values := url.Values{}
	values.Set("search", "azure")
	values.Set("locale", models.DefaultLocale)
	return base + "/suggestions?" + values.Encode()
}

func checkProxy(proxy string, target string, timeout time.Duration) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy}
	fail := func(err error) ProxyCheckResult {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	rotator, err := network.NewRotator([]string{proxy}, network.DefaultBanDuration)
	if err != nil {
		return fail(err)
	}
	client, err := network.NewClient(rotator, models.ClientConfig{Timeout: timeout})
	if err != nil {
		return fail(err)
	}

	req, err := fhttp.NewRequest(fhttp.MethodGet, target, nil)
	if err != nil {
		return fail(err)
	}

	start := time.Now()
	resp, err := doWithTimeout(client, req, timeout)
	if err != nil {
		return fail(err)
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = fmt.Sprintf("%d", resp.StatusCode)
	return result
}

func doWithTimeout(client *network.Client, req *fhttp.Request, timeout time.Duration) (*fhttp.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	return client.Do(req.WithContext(ctx))
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
