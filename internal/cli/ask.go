// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	chatsvc "github.com/nexus-campus/nexus-tui/internal/chat"
	"github.com/nexus-campus/nexus-tui/internal/session"
	"github.com/nexus-campus/nexus-tui/internal/ui/components"
	"github.com/nexus-campus/nexus-tui/internal/ui/styles"
)

// HandleAsk sends a single question and prints the reply. The question is
// taken from the arguments, or from stdin when none are given. Each ask
// starts a new chat unless --continue is passed, and is saved like any
// other chat.
func HandleAsk(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "ask", func() (interface{}, error) {
		if err := env.requireRole(session.RoleStudent); err != nil {
			return nil, err
		}

		query := strings.TrimSpace(args.Query)
		if query == "" && !env.Interactive {
			data, err := io.ReadAll(env.Stdin)
			if err != nil {
				return nil, fmt.Errorf("read question: %w", err)
			}
			query = strings.TrimSpace(string(data))
		}
		if !chatsvc.Acceptable(query) {
			return nil, ErrMissingArgument("question", `nexus ask "<question>"`)
		}

		store, err := env.Store()
		if err != nil {
			return nil, err
		}
		if !args.Parser.BoolFlag("continue") {
			store.CreateConversation()
		}

		ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
		defer cancel()

		start := time.Now()
		reply, convID, err := chatsvc.NewExchange(env.Client).WithLogger(env.Logger).Converse(ctx, store, query)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		if !args.JSON {
			if args.Parser.BoolFlag("raw") || !IsStdoutTTY() {
				fmt.Fprintln(env.Stdout, reply)
			} else {
				theme := styles.NewTheme(env.Config.UI.Theme)
				md := components.NewMarkdown(theme.IsDark, env.Config.UI.Markdown && ColorsEnabled())
				fmt.Fprintln(env.Stdout, md.Render(reply, GetTerminalWidth()-2))
			}
			if !args.Quiet && args.Verbose {
				fmt.Fprintln(env.Stderr, DimStyle.Render(fmt.Sprintf("[%s in %s]", shortID(convID), elapsed.Round(time.Millisecond))))
			}
		}
		return AskData{
			ConversationID: convID,
			Question:       query,
			Response:       reply,
			DurationMs:     elapsed.Milliseconds(),
		}, nil
	})
}
