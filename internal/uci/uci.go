// Package uci implements the two protocol front-ends of the engine: the
// Universal Chess Interface and a readline console in the Xboard style.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ivasilev/tamerlane/internal/board"
	"github.com/ivasilev/tamerlane/internal/engine"
)

// Handler speaks UCI on stdin/stdout. The search runs on its own goroutine
// so "stop" can trip the cooperative flag at any time; everything else is
// serialized on the command loop.
type Handler struct {
	searcher *engine.Searcher
	board    *board.Board
	post     bool

	searchDone chan struct{}
}

// New creates a UCI handler around a searcher.
func New(searcher *engine.Searcher, post bool) *Handler {
	return &Handler{
		searcher: searcher,
		board:    board.NewBoard(),
		post:     post,
	}
}

// Run processes commands until "quit" or EOF.
func (h *Handler) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			h.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			h.waitSearch()
			h.board = board.NewBoard()
		case "position":
			h.waitSearch()
			h.handlePosition(args)
		case "go":
			h.waitSearch()
			h.handleGo(args)
		case "stop":
			h.searcher.Stop()
			h.waitSearch()
		case "setoption":
			h.handleSetOption(args)
		case "quit":
			h.searcher.Stop()
			h.waitSearch()
			return scanner.Err()
		// Debug commands
		case "d":
			fmt.Println(h.board.String())
		case "perft":
			h.handlePerft(args)
		case "eval":
			fmt.Printf("info string eval %d\n", h.searcher.Evaluate(h.board))
		default:
			log.Debug().Str("command", cmd).Msg("ignoring unknown command")
		}
	}

	return scanner.Err()
}

func (h *Handler) handleUCI() {
	fmt.Println("id name Tamerlane")
	fmt.Println("id author Tamerlane authors")
	fmt.Println()
	fmt.Println("option name Post type check default true")
	fmt.Println("uciok")
}

// waitSearch blocks until a running search has finished.
func (h *Handler) waitSearch() {
	if h.searchDone != nil {
		<-h.searchDone
		h.searchDone = nil
	}
}

// handlePosition parses "position [startpos|fen <fen>] [moves ...]".
// An unparsable FEN or an illegal move leaves the position untouched.
func (h *Handler) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var b *board.Board
	moveStart := len(args)

	switch args[0] {
	case "startpos":
		b = board.NewBoard()
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				moveStart = i + 2
				break
			}
		}

		parsed, err := board.FromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			log.Warn().Err(err).Msg("invalid FEN in position command")
			return
		}
		b = parsed
	default:
		return
	}

	for _, moveStr := range args[min(moveStart, len(args)):] {
		m := b.MoveFromString(moveStr)
		if m == board.NoMove {
			log.Warn().Str("move", moveStr).Msg("illegal move in position command")
			return
		}
		b.MakeMove(m)
	}

	h.board = b
}

// handleGo maps the UCI limits onto the time policy and starts the search
// on its own goroutine.
func (h *Handler) handleGo(args []string) {
	limits := h.searcher.Limits

	var wtime, btime, winc, binc, movetime time.Duration
	movestogo := 0
	depth, nodes := 0, uint64(0)
	infinite := false

	for i := 0; i < len(args); i++ {
		value := ""
		if i+1 < len(args) {
			value = args[i+1]
		}
		switch args[i] {
		case "wtime":
			wtime = parseMs(value)
			i++
		case "btime":
			btime = parseMs(value)
			i++
		case "winc":
			winc = parseMs(value)
			i++
		case "binc":
			binc = parseMs(value)
			i++
		case "movestogo":
			movestogo, _ = strconv.Atoi(value)
			i++
		case "movetime":
			movetime = parseMs(value)
			i++
		case "depth":
			depth, _ = strconv.Atoi(value)
			i++
		case "nodes":
			nodes, _ = strconv.ParseUint(value, 10, 64)
			i++
		case "infinite":
			infinite = true
		}
	}

	limits.SetDepthLimit(depth)
	limits.SetNodesLimit(nodes)

	ourTime, ourInc := wtime, winc
	if h.board.Side() == board.Black {
		ourTime, ourInc = btime, binc
	}

	switch {
	case infinite:
		limits.SetTimeControl(0, 0, 0)
		limits.Reset(0)
	case movetime > 0:
		limits.SetTimeControl(1, 0, movetime)
		limits.Reset(movetime)
	case ourTime > 0:
		// With an increment the repeating-control policy degenerates to
		// exact-per-move, which would burn the whole clock; treat it as
		// incremental instead.
		if ourInc > 0 {
			movestogo = 0
		}
		limits.SetTimeControl(movestogo, ourTime, ourInc)
		limits.Reset(ourTime)
	default:
		limits.SetTimeControl(0, 0, 0)
		limits.Reset(0)
	}

	if h.post {
		h.searcher.OnIteration = h.printIteration
	} else {
		h.searcher.OnIteration = nil
	}

	done := make(chan struct{})
	h.searchDone = done
	b := h.board.Copy()

	go func() {
		defer close(done)
		result := h.searcher.RootSearch(b)
		fmt.Printf("bestmove %s\n", result.Best)
	}()
}

// printIteration emits the UCI info line for one completed iteration.
func (h *Handler) printIteration(info engine.IterationInfo) {
	var score string
	if engine.IsMateValue(info.Value) {
		plies := engine.GivingMateIn(info.Value)
		if info.Value < 0 {
			plies = -engine.GettingMatedIn(info.Value)
		}
		score = fmt.Sprintf("mate %d", plies)
	} else {
		score = fmt.Sprintf("cp %d", info.Value)
	}

	var pv strings.Builder
	for _, m := range info.PV {
		pv.WriteByte(' ')
		pv.WriteString(m.String())
	}

	fmt.Printf("info depth %d nodes %d time %d score %s pv%s\n",
		info.Depth, info.Nodes, info.Elapsed.Milliseconds(), score, pv.String())
}

func (h *Handler) handleSetOption(args []string) {
	// "setoption name <name> [value <x>]"
	name, value := "", ""
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "name":
			name = args[i+1]
		case "value":
			value = args[i+1]
		}
	}

	switch strings.ToLower(name) {
	case "post":
		h.post = value == "true"
	default:
		log.Debug().Str("option", name).Msg("ignoring unknown option")
	}
}

func (h *Handler) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := engine.Perft(h.board, depth)
	elapsed := time.Since(start)

	fmt.Printf("info string perft(%d) = %d (%.0f knps)\n",
		depth, nodes, float64(nodes)/1000/elapsed.Seconds())
}

func parseMs(s string) time.Duration {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
