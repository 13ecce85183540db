// Terminal client for the flare agent service: a chat session by default, or
// the lottery board with "flare-cli lottery".
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"flare-defi-agent/internal/config"
	"flare-defi-agent/internal/conversation"
	"flare-defi-agent/internal/lottery"
	"flare-defi-agent/internal/ui"
)

func main() {
	cfg := config.Load()
	mode := "chat"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "chat":
		runChat(cfg)
	case "lottery":
		runLottery(cfg)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [chat|lottery]\n", os.Args[0])
		os.Exit(2)
	}
}

func runChat(cfg config.Config) {
	ctx := context.Background()
	conv := conversation.New(conversation.NewClient(cfg.AgentURL))
	actions := ui.QuickActions()

	fmt.Println("Flare DeFi Agent — ask about prices, balances, transactions, randomness or the ecosystem.")
	ui.RenderQuickActions(os.Stdout, actions)
	fmt.Println(`Type a message, a quick-action number, or "quit".`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "quit" || text == "exit" {
			return
		}
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(actions) {
			text = actions[n-1].Message
		}
		before := len(conv.Messages())
		ui.RenderTyping(os.Stdout)
		conv.Send(ctx, text)
		for _, m := range conv.Messages()[before:] {
			ui.RenderMessage(os.Stdout, m)
		}
		if e := conv.Err(); e != "" {
			ui.RenderError(os.Stdout, e)
		}
	}
}

func runLottery(cfg config.Config) {
	ctx := context.Background()
	opts := []lottery.Option{}
	if cfg.LotterySurfaceErrors {
		opts = append(opts, lottery.WithErrorSurface())
	}
	game := lottery.NewGame(lottery.NewProxyClient(cfg.AgentURL), opts...)

	fmt.Println("Flare Lottery — roll your 5-digit number, lock it in, and match the Flare Central draw.")
	fmt.Println("Commands: roll <player>, lock <player>, name <player> <name>, draw, reset, board, quit")
	ui.RenderBoard(os.Stdout, game.Snapshot())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "board":
		case "roll":
			if i, ok := playerIndex(fields); ok {
				game.Roll(ctx, i)
			}
		case "lock":
			if i, ok := playerIndex(fields); ok {
				if game.Snapshot().Players[i].Number == nil {
					fmt.Println("roll a number first")
					continue
				}
				game.Lock(i)
			}
		case "name":
			if i, ok := playerIndex(fields); ok && len(fields) > 2 {
				game.Rename(i, strings.Join(fields[2:], " "))
			}
		case "draw":
			if !game.AllLocked() {
				fmt.Println("All players must lock in")
				continue
			}
			game.Draw(ctx)
		case "reset":
			game.Reset()
		default:
			fmt.Println("unknown command")
			continue
		}
		snap := game.Snapshot()
		ui.RenderBoard(os.Stdout, snap)
		if snap.DrawDone {
			ui.RenderResult(os.Stdout, game.Winners())
		}
	}
}

func playerIndex(fields []string) (int, bool) {
	if len(fields) < 2 {
		fmt.Println("which player? (1-3)")
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > lottery.PlayerCount {
		fmt.Println("which player? (1-3)")
		return 0, false
	}
	return n - 1, true
}
