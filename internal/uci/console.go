package uci

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/ivasilev/tamerlane/internal/board"
	"github.com/ivasilev/tamerlane/internal/engine"
	"github.com/ivasilev/tamerlane/internal/storage"
)

// Console is an interactive analysis shell in the Xboard style: the user
// plays moves, the engine answers, completed root iterations are posted as
// "<depth> <score> <centiseconds> <nodes> <pv>" lines. Finished games are
// recorded through the storage when one is attached.
type Console struct {
	searcher *engine.Searcher
	board    *board.Board
	store    *storage.Storage

	post      bool
	forceMode bool
	moves     []board.Move
	startFEN  string
}

// NewConsole creates the console front-end. store may be nil.
func NewConsole(searcher *engine.Searcher, store *storage.Storage, post bool) *Console {
	return &Console{
		searcher: searcher,
		board:    board.NewBoard(),
		store:    store,
		post:     post,
		startFEN: board.StartFEN,
	}
}

func consoleUsage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "new - reset the board\n")
	io.WriteString(w, "setfen <fen> - start from the given position\n")
	io.WriteString(w, "fen - print the FEN of the current position\n")
	io.WriteString(w, "board - show the current board\n")
	io.WriteString(w, "moves - list the legal moves\n")
	io.WriteString(w, "do <move> - make a move (the engine answers unless in force mode)\n")
	io.WriteString(w, "undo - unmake the last move\n")
	io.WriteString(w, "force - the engine stops answering moves\n")
	io.WriteString(w, "go - leave force mode and let the engine move\n")
	io.WriteString(w, "level <control> <mm[:ss]> <inc> - set the time policy\n")
	io.WriteString(w, "st <seconds> - exact time per move\n")
	io.WriteString(w, "sd <depth> / sn <nodes> - depth and node caps\n")
	io.WriteString(w, "post / nopost - toggle per-iteration output\n")
	io.WriteString(w, "history - moves played so far\n")
	io.WriteString(w, "eval - static evaluation\n")
	io.WriteString(w, "search <depth> - fixed-depth search value\n")
	io.WriteString(w, "perft <depth> - movegen node count\n")
	io.WriteString(w, "result - game state\n")
	io.WriteString(w, "games - recorded games\n")
	io.WriteString(w, "quit - exit\n")
}

// Run drives the console until quit or EOF.
func (c *Console) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "tamerlane> ",
		HistoryFile:       "/tmp/tamerlane_history.tmp",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "quit", "q", "exit":
			return nil
		case "help", "h":
			consoleUsage(rl.Stderr())
		case "new":
			c.newGame(board.StartFEN)
		case "setfen":
			c.handleSetFEN(strings.Join(args, " "))
		case "fen":
			fmt.Println(c.board.ToFEN())
		case "board", "print", "d":
			fmt.Println(c.board.String())
		case "moves":
			c.printLegalMoves()
		case "do", "move":
			c.handleDo(args)
		case "undo":
			c.handleUndo()
		case "force":
			c.forceMode = true
		case "go":
			c.forceMode = false
			c.engineMove()
		case "level":
			c.handleLevel(args)
		case "st":
			c.handleSt(args)
		case "sd", "set_max_depth":
			c.handleSd(args)
		case "sn", "set_max_nodes":
			c.handleSn(args)
		case "post":
			c.post = true
		case "nopost":
			c.post = false
		case "history":
			for _, m := range c.moves {
				fmt.Println("\t" + m.String())
			}
		case "eval":
			fmt.Printf("evaluation: %d centipawns\n", c.searcher.Evaluate(c.board))
		case "search":
			c.handleSearch(args)
		case "perft":
			c.handleConsolePerft(args)
		case "result":
			fmt.Println(c.board.ComputeGameResult())
		case "games":
			c.printGames()
		case "?":
			c.searcher.Stop()
		default:
			// A bare move is accepted like "do <move>".
			if c.board.MoveFromString(cmd) != board.NoMove {
				c.handleDo([]string{cmd})
			} else {
				fmt.Printf("unknown command: %s (h for help)\n", cmd)
			}
		}
	}
}

func (c *Console) newGame(fen string) {
	b, err := board.FromFEN(fen)
	if err != nil {
		fmt.Println("illegal position; the board was not changed")
		return
	}
	c.board = b
	c.moves = c.moves[:0]
	c.startFEN = fen
}

func (c *Console) handleSetFEN(fen string) {
	if fen == "" {
		fmt.Println("setfen needs a FEN string")
		return
	}
	c.newGame(fen)
}

func (c *Console) printLegalMoves() {
	var ml board.MoveList
	c.board.GenerateMoves(&ml, board.AllMoves)
	for i := 0; i < ml.Len(); i++ {
		if c.board.IsLegal(ml.Get(i)) {
			fmt.Println("\t" + ml.Get(i).String())
		}
	}
}

func (c *Console) handleDo(args []string) {
	if len(args) != 1 {
		fmt.Println("do needs exactly one move")
		return
	}

	m := c.board.MoveFromString(args[0])
	if m == board.NoMove {
		fmt.Println("illegal move!")
		return
	}

	c.board.MakeMove(m)
	c.moves = append(c.moves, m)

	if c.gameOver() {
		return
	}
	if !c.forceMode {
		c.engineMove()
	}
}

func (c *Console) handleUndo() {
	if len(c.moves) == 0 {
		fmt.Println("cannot unmake move: no moves made")
		return
	}
	c.board.UnmakeMove(c.moves[len(c.moves)-1])
	c.moves = c.moves[:len(c.moves)-1]
}

// engineMove runs a search for the side to move and plays the result.
func (c *Console) engineMove() {
	if c.post {
		c.searcher.OnIteration = c.printIteration
	} else {
		c.searcher.OnIteration = nil
	}

	c.searcher.Limits.Reset(0)
	result := c.searcher.RootSearch(c.board)
	if result.Best == board.NoMove {
		fmt.Println(c.board.ComputeGameResult())
		return
	}

	c.board.MakeMove(result.Best)
	c.searcher.Limits.AddMoves(1)
	c.moves = append(c.moves, result.Best)

	fmt.Printf("best move: %s\nvalue: %d centipawns\n%s\n",
		result.Best, result.Value, c.board)

	c.gameOver()
}

// printIteration emits the console/Xboard post line:
// depth, score, centiseconds, nodes, pv.
func (c *Console) printIteration(info engine.IterationInfo) {
	var pv strings.Builder
	for i, m := range info.PV {
		if i > 0 {
			pv.WriteByte(' ')
		}
		pv.WriteString(m.String())
	}
	fmt.Printf("%d %d %d %d %s\n",
		info.Depth, info.Value, info.Elapsed.Milliseconds()/10, info.Nodes, pv.String())
}

// gameOver reports a finished game and records it.
func (c *Console) gameOver() bool {
	result := c.board.ComputeGameResult()
	if result == board.ResultNone {
		return false
	}

	fmt.Println(result)

	if c.store != nil {
		moves := make([]string, len(c.moves))
		for i, m := range c.moves {
			moves[i] = m.String()
		}
		rec := &storage.GameRecord{
			Result: result.String(),
			Moves:  moves,
		}
		if c.startFEN != board.StartFEN {
			rec.StartFEN = c.startFEN
		}
		if err := c.store.RecordGame(rec); err != nil {
			log.Warn().Err(err).Msg("failed to record game")
		}
	}
	return true
}

// handleLevel parses "level <control> <minutes[:seconds]> <inc-seconds>".
func (c *Console) handleLevel(args []string) {
	if len(args) != 3 {
		fmt.Println("level needs <control> <base> <inc>")
		return
	}

	control, err := strconv.Atoi(args[0])
	if err != nil || control < 0 {
		fmt.Println("bad control moves")
		return
	}

	baseParts := strings.SplitN(args[1], ":", 2)
	minutes, err := strconv.Atoi(baseParts[0])
	if err != nil || minutes < 0 {
		fmt.Println("bad base time")
		return
	}
	base := time.Duration(minutes) * time.Minute
	if len(baseParts) == 2 {
		seconds, err := strconv.Atoi(baseParts[1])
		if err != nil || seconds < 0 {
			fmt.Println("bad base time")
			return
		}
		base += time.Duration(seconds) * time.Second
	}

	inc, err := strconv.Atoi(args[2])
	if err != nil || inc < 0 {
		fmt.Println("bad increment")
		return
	}

	c.searcher.Limits.SetTimeControl(control, base, time.Duration(inc)*time.Second)
}

func (c *Console) handleSt(args []string) {
	if len(args) != 1 {
		fmt.Println("st needs <seconds>")
		return
	}
	seconds, err := strconv.Atoi(args[0])
	if err != nil || seconds <= 0 {
		fmt.Println("bad seconds")
		return
	}
	// Exact-per-move policy: both control and increment set.
	c.searcher.Limits.SetTimeControl(1, 0, time.Duration(seconds)*time.Second)
}

func (c *Console) handleSd(args []string) {
	if len(args) != 1 {
		fmt.Println("sd needs <depth>")
		return
	}
	depth, _ := strconv.Atoi(args[0])
	c.searcher.Limits.SetDepthLimit(depth)
}

func (c *Console) handleSn(args []string) {
	if len(args) != 1 {
		fmt.Println("sn needs <nodes>")
		return
	}
	nodes, _ := strconv.ParseUint(args[0], 10, 64)
	c.searcher.Limits.SetNodesLimit(nodes)
}

func (c *Console) handleSearch(args []string) {
	if len(args) != 1 {
		fmt.Println("search needs <depth>")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth <= 0 {
		fmt.Println("bad depth")
		return
	}

	c.searcher.Limits.SetDepthLimit(depth)
	c.searcher.Limits.Reset(0)
	result := c.searcher.RootSearch(c.board)
	c.searcher.Limits.SetDepthLimit(0)
	fmt.Printf("search result: %d centipawns (%s)\n", result.Value, result.Best)
}

func (c *Console) handleConsolePerft(args []string) {
	if len(args) != 1 {
		fmt.Println("perft needs <depth>")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth <= 0 {
		fmt.Println("bad depth")
		return
	}

	start := time.Now()
	nodes := engine.Perft(c.board, depth)
	fmt.Printf("nodes found: %d in %v\n", nodes, time.Since(start).Round(time.Millisecond))
}

func (c *Console) printGames() {
	if c.store == nil {
		fmt.Println("no storage attached")
		return
	}
	games, err := c.store.Games()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list games")
		return
	}
	for i, g := range games {
		fmt.Printf("%3d. %-8s %3d moves  %s\n",
			i+1, g.Result, (len(g.Moves)+1)/2, g.FinishedAt.Format("2006-01-02 15:04"))
	}
}
