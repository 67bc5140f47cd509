package tui

import (
	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/model"
)

// Async results carry the generation they were started under; results from
// an abandoned view are discarded by the update loop.

type projectsLoadedMsg struct {
	gen      int
	projects []model.Project
}

type fetchFailedMsg struct {
	gen int
	err error
}

type detailLoadedMsg struct {
	gen     int
	project *model.Project
}

type commentsLoadedMsg struct {
	gen      int
	comments []model.Comment
}

type signInResultMsg struct {
	err error
}

type projectSavedMsg struct {
	gen     int
	project *model.Project
	err     error
}

type projectDeletedMsg struct {
	gen int
	id  string
	err error
}

type commentPostedMsg struct {
	gen int
	err error
}

// configReloadedMsg arrives from the config file watcher.
type configReloadedMsg struct {
	cfg *config.Config
}
