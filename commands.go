package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"ticket-relay-bot/internal/botconfig_parser"
	"ticket-relay-bot/internal/database"
	"ticket-relay-bot/internal/ticketref"

	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	botConfig  string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ticket-relay-bot",
		Short:         "Telegram-бот поддержки: пересылает обращения в чат сотрудников и ответы обратно",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "./config/config.yml", "path to config file")
	root.PersistentFlags().StringVar(&opts.botConfig, "bot", "", "path to bot menus file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "print debug information on stderr")

	root.AddCommand(newTicketsCmd(opts), newCheckConfigCmd(opts))

	return root
}

func Execute() error {
	return newRootCmd().Execute()
}

func newTicketsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Просмотр сохраненных обращений",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Все обращения",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			tickets, err := store.List(ctxOf(cmd))
			if err != nil {
				return err
			}

			refs := make([]string, 0, len(tickets))
			for ref := range tickets {
				refs = append(refs, ref)
			}
			sort.Strings(refs)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REF\tUSER\tSTATUS")
			for _, ref := range refs {
				t := tickets[ref]
				fmt.Fprintf(w, "%s\t%d\t%s\n", ticketref.Tag(ref), t.UserID, t.Status)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <ref>",
		Short: "Одно обращение по номеру или тегу #ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			if extracted, ok := ticketref.Extract(ref); ok {
				ref = extracted
			}

			store, err := openStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			ticket, found, err := store.Get(ctxOf(cmd), ref)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("обращение %s не найдено", ticketref.Tag(ref))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s user=%d status=%s\n", ticketref.Tag(ref), ticket.UserID, ticket.Status)
			return nil
		},
	})

	return cmd
}

func newCheckConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Проверить config.yml и меню бота без запуска",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cnf.Validate(); err != nil {
				return err
			}
			menus, err := botconfig_parser.InitLevels(cnf.BotConfig)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "storage: %s %s\n", cnf.Storage.Driver, cnf.Storage.Path)
			fmt.Fprintf(out, "staff chat: %d\n", cnf.Telegram.StaffChatID)
			for _, screen := range sortedScreens(menus.Get()) {
				fmt.Fprintf(out, "%s:\n%s", screen, menus.Get().Menu[screen].View())
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}

func openStore(opts *options) (database.TicketStore, error) {
	cnf, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return database.OpenStore(cnf.Storage.Driver, cnf.Storage.Path)
}

func sortedScreens(l *botconfig_parser.Levels) []string {
	screens := make([]string, 0, len(l.Menu))
	for screen := range l.Menu {
		screens = append(screens, screen)
	}
	sort.Strings(screens)
	return screens
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
