package handler

import (
	"pawchat/internal/app/chat"
	"pawchat/internal/app/store"
	"pawchat/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every handler.
type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
	Store  store.Store
}
