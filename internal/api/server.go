package api

import (
	"github.com/minyeol/songquiz/internal/catalog"
	"github.com/minyeol/songquiz/internal/ledger"
	"github.com/minyeol/songquiz/internal/quiz"
	"github.com/minyeol/songquiz/internal/worker"
)

// Server wires the quiz engine and reward ledger to the HTTP command surface
// consumed by the chat facade.
type Server struct {
	Engine  *quiz.Engine
	Ledger  *ledger.Ledger
	Catalog *catalog.Service
	JobPool *worker.Pool
}
