package app

import "chat-relay/internal/core"

// State bundles the process-wide singletons: the registry, directory, log and
// router. Constructed empty at startup, discarded at shutdown; all access goes
// through component operations, never ambient globals.
type State struct {
	Log      *core.MessageLog
	Registry *core.ConnectionRegistry
	Rooms    *core.RoomDirectory
	Router   *core.BroadcastRouter
}

func NewState(historyLimit int) *State {
	rooms := core.NewRoomDirectory()
	return &State{
		Log:      core.NewMessageLog(historyLimit),
		Registry: core.NewConnectionRegistry(),
		Rooms:    rooms,
		Router:   core.NewBroadcastRouter(rooms),
	}
}
