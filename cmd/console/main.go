// Command console runs an interactive launchpad session against an in-memory
// system: create pools, trade against the curve, lock liquidity, and graduate
// pools, with change notifications streamed to the terminal.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/config"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive pre-listing liquidity pool console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			metrics := launchpad.NewMetrics(prometheus.NewRegistry())
			system := launchpad.NewSystem(cfg.GraduationConfig(), metrics, logger)
			return runConsole(system, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.Flags().Uint64("graduation-threshold-sol", 0, "minimum SOL reserve for graduation")
	cmd.Flags().Uint32("migration-fee-bps", 0, "migration fee in basis points")
	cmd.Flags().Int("event-buffer", 0, "change notification buffer size")
	cmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// session holds the interactive state: one trader wallet, one authority
// wallet, and named mints.
type session struct {
	system    *launchpad.System
	authority solana.PublicKey
	trader    solana.PublicKey
	mints     map[string]solana.PublicKey
}

func runConsole(system *launchpad.System, cfg config.Config, logger *zap.Logger) error {
	s := &session{
		system:    system,
		authority: solana.NewWallet().PublicKey(),
		trader:    solana.NewWallet().PublicKey(),
		mints:     make(map[string]solana.PublicKey),
	}

	events, cancel := system.Subscribe(cfg.EventBuffer)
	defer cancel()
	go func() {
		for ev := range events {
			logger.Info("event",
				zap.String("type", string(ev.Type)),
				zap.Stringer("mint", ev.Mint),
				zap.Uint64("tokens", ev.Reserves.Tokens),
				zap.Uint64("sol", ev.Reserves.Sol),
			)
		}
	}()

	fmt.Println("launchpad console, type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func (s *session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Print(`commands:
  create <name> [bootstrapped|linear]   create a pool for a fresh mint
  airdrop <lamports>                    fund the trader wallet
  buy <name> <tokens> <maxSol>          buy from the curve
  sell <name> <tokens> <minSol>         sell into the curve
  lock <name> <on|off>                  toggle the withdrawal lock
  graduate <name> <raydium|orca|jupiter>
  pools                                 list all pools
  balance                               show the trader's lamports
  quit
`)
		return nil
	case "create":
		return s.create(args)
	case "airdrop":
		if len(args) != 1 {
			return fmt.Errorf("usage: airdrop <lamports>")
		}
		lamports, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return s.system.Airdrop(s.trader, lamports)
	case "buy", "sell":
		return s.trade(cmd, args)
	case "lock":
		return s.lock(args)
	case "graduate":
		return s.graduate(args)
	case "pools":
		s.printPools()
		return nil
	case "balance":
		fmt.Printf("trader %s holds %d lamports\n", s.trader, s.system.SolBalance(s.trader))
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *session) create(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: create <name> [bootstrapped|linear]")
	}
	curveType := curve.TypeBootstrapped
	if len(args) > 1 && args[1] == "linear" {
		curveType = curve.TypeLinear
	}

	mint := solana.NewWallet().PublicKey()
	receipt, err := s.system.InitPool(mint, curveType, s.authority)
	if err != nil {
		return err
	}
	s.mints[args[0]] = mint
	fmt.Printf("pool %s created at %s (curve %s)\n", args[0], receipt.Address, curveType)
	return nil
}

func (s *session) trade(side string, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: %s <name> <tokens> <bound>", side)
	}
	mint, ok := s.mints[args[0]]
	if !ok {
		return fmt.Errorf("unknown pool %q", args[0])
	}
	tokens, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	bound, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	var receipt launchpad.TradeReceipt
	if side == "buy" {
		receipt, err = s.system.Buy(mint, s.trader, tokens, bound)
	} else {
		receipt, err = s.system.Sell(mint, s.trader, tokens, bound)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s %d tokens for %d lamports; reserves now %d/%d\n",
		side, receipt.Tokens, receipt.Sol, receipt.Reserves.Tokens, receipt.Reserves.Sol)
	return nil
}

func (s *session) lock(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: lock <name> <on|off>")
	}
	mint, ok := s.mints[args[0]]
	if !ok {
		return fmt.Errorf("unknown pool %q", args[0])
	}
	view, err := s.system.LockLiquidity(mint, s.authority, args[1] == "on")
	if err != nil {
		return err
	}
	fmt.Printf("pool %s locked=%v\n", args[0], view.Locked)
	return nil
}

func (s *session) graduate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: graduate <name> <raydium|orca|jupiter>")
	}
	mint, ok := s.mints[args[0]]
	if !ok {
		return fmt.Errorf("unknown pool %q", args[0])
	}
	venue, err := graduation.ParseVenue(args[1])
	if err != nil {
		return err
	}
	receipt, err := s.system.Graduate(mint, s.authority, venue)
	if err != nil {
		return err
	}
	mig := receipt.Migration
	fmt.Printf("pool %s graduated to %s: %d tokens, %d lamports (fee %d)\n",
		args[0], mig.Venue, mig.Tokens, mig.Sol, mig.FeeSol)
	return nil
}

func (s *session) printPools() {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tCURVE\tTOKENS\tSOL\tLOCKED\tGRADUATED")
	for name, mint := range s.mints {
		view, err := s.system.FetchByMint(mint)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%v\n",
			name, shorten(view.Address), view.CurveType,
			view.TotalTokens, view.TotalSol, view.Locked, view.Graduated)
	}
	w.Flush()
}

func shorten(pk solana.PublicKey) string {
	s := pk.String()
	if len(s) <= 12 {
		return s
	}
	return s[:6] + ".." + s[len(s)-4:]
}

func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}
