// Package ui renders conversation and lottery state for the terminal. All
// functions are stateless; the controllers own the data.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"flare-defi-agent/internal/lottery"
	"flare-defi-agent/internal/types"
)

var (
	userStyle      = color.New(color.FgCyan, color.Bold)
	assistantStyle = color.New(color.FgGreen, color.Bold)
	errorStyle     = color.New(color.FgRed)
	dimStyle       = color.New(color.FgGray)
	houseStyle     = color.New(color.FgMagenta, color.Bold)
)

// QuickAction is one canned prompt offered before the first message.
type QuickAction struct {
	Label   string
	Message string
}

func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "FLR Price", Message: "What is the current price of FLR?"},
		{Label: "BTC Price", Message: "What is the current price of Bitcoin?"},
		{Label: "ETH Price", Message: "What is the current price of ETH?"},
		{Label: "Random Number", Message: "Generate a secure random number"},
		{Label: "Verify Tx", Message: "Verify transaction 0x4e636c6f50b2a9539e5e5c5cd3590bd3bb25637a2b1e69f4282a16a0d5a04590 on Flare"},
		{Label: "List Assets", Message: "What assets are supported by the price oracle?"},
	}
}

func RenderQuickActions(w io.Writer, actions []QuickAction) {
	fmt.Fprintln(w, dimStyle.Render("Quick actions:"))
	for i, a := range actions {
		fmt.Fprintf(w, "  %d. %s — %s\n", i+1, a.Label, dimStyle.Render(a.Message))
	}
}

func RenderMessage(w io.Writer, m types.Message) {
	switch m.Role {
	case types.RoleUser:
		fmt.Fprintf(w, "%s %s\n", userStyle.Render("you:"), m.Content)
	case types.RoleAssistant:
		fmt.Fprintf(w, "%s %s\n", assistantStyle.Render("agent:"), m.Content)
		for _, tc := range m.ToolCalls {
			RenderToolCall(w, tc)
		}
	}
}

func RenderTyping(w io.Writer) {
	fmt.Fprintln(w, dimStyle.Render("agent is typing..."))
}

func RenderError(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error:"), msg)
}

// RenderToolCall draws one result card. Dispatch is by tool name; the switch
// is the single place that knows every tool the mock engine and backend can
// produce.
func RenderToolCall(w io.Writer, tc types.ToolCall) {
	fmt.Fprintf(w, "  %s %s (%s)\n", dimStyle.Render("tool:"), tc.Name, tc.Status)
	if tc.Output == nil {
		return
	}
	card := newCard(w)
	switch tc.Name {
	case "get_price":
		card.SetHeader([]string{"Symbol", "Price", "Source", "Decimals"})
		card.Append([]string{
			field(tc.Output, "symbol"),
			field(tc.Output, "price"),
			field(tc.Output, "source"),
			field(tc.Output, "decimals"),
		})
	case "get_balance":
		card.SetHeader([]string{"Address", "Balance", "Symbol", "Network"})
		card.Append([]string{
			field(tc.Output, "address"),
			field(tc.Output, "balance"),
			field(tc.Output, "symbol"),
			field(tc.Output, "network"),
		})
	case "send_transaction":
		card.SetHeader([]string{"Tx Hash", "Amount", "Status", "Block"})
		card.Append([]string{
			field(tc.Output, "txHash"),
			field(tc.Output, "amount") + " " + field(tc.Output, "symbol"),
			field(tc.Output, "status"),
			field(tc.Output, "blockNumber"),
		})
	case "get_random":
		card.SetHeader([]string{"Random Number", "Range", "Secure", "Source"})
		card.Append([]string{
			field(tc.Output, "randomNumber"),
			field(tc.Output, "range"),
			field(tc.Output, "isSecure"),
			field(tc.Output, "source"),
		})
	case "flare_search":
		card.SetHeader([]string{"Title", "Snippet"})
		if results, ok := tc.Output["results"].([]any); ok {
			for _, r := range results {
				if m, ok := r.(map[string]any); ok {
					card.Append([]string{field(m, "title"), field(m, "snippet")})
				}
			}
		}
	default:
		// Unknown tool from the real backend: dump the raw output.
		raw, _ := json.Marshal(tc.Output)
		card.SetHeader([]string{"Output"})
		card.Append([]string{string(raw)})
	}
	card.Render()
}

// RenderBoard draws the lottery board: each player's digits and state plus
// the house row.
func RenderBoard(w io.Writer, snap lottery.Snapshot) {
	table := newCard(w)
	table.SetHeader([]string{"Player", "Number", "State"})
	for i, p := range snap.Players {
		state := "unrolled"
		switch {
		case p.Rolling:
			state = "rolling..."
		case p.Locked:
			state = "locked"
		case p.Number != nil:
			state = "rolled"
		}
		if isWinner(snap, i) {
			state = "WINNER!"
		}
		table.Append([]string{p.Name, digits(p.Number), state})
	}
	houseState := ""
	if snap.Drawing {
		houseState = "drawing..."
	} else if snap.DrawDone {
		houseState = "drawn"
	}
	table.Append([]string{houseStyle.Render("Flare Central"), digits(snap.HouseNumber), houseState})
	table.Render()
	if snap.Err != "" {
		RenderError(w, snap.Err)
	}
}

// RenderResult prints the winner/no-match banner after the draw.
func RenderResult(w io.Writer, winners []string) {
	if len(winners) > 0 {
		fmt.Fprintln(w, assistantStyle.Render(
			fmt.Sprintf("We have a winner! %s matched the Flare Central number!", strings.Join(winners, ", "))))
		return
	}
	fmt.Fprintln(w, dimStyle.Render("No match this round. Try again!"))
}

func newCard(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	return table
}

func digits(n *int) string {
	return strings.Join(lottery.FormatDigits(n), " ")
}

func isWinner(snap lottery.Snapshot, i int) bool {
	p := snap.Players[i]
	return snap.DrawDone && p.Locked && p.Number != nil && snap.HouseNumber != nil && *p.Number == *snap.HouseNumber
}

func field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}
