// Package server is the transport shell: gin router, websocket upgrade and
// the per-connection read loop feeding the room coordinator.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/moodboard/moodboard-server/internal/config"
	"github.com/moodboard/moodboard-server/internal/room"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is handled at the HTTP layer
	},
}

func NewRouter(cfg *config.Config, registry *room.Registry) *gin.Engine {
	gin.SetMode(cfg.Mode)

	router := gin.New()

	router.Use(gin.LoggerWithWriter(os.Stdout))
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/ws", wsHandler(cfg, registry))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": registry.Count()})
	})

	// Frontend build with index.html fallback for client-side routes.
	if cfg.StaticPath != "" {
		router.NoRoute(staticHandler(cfg.StaticPath))
	}

	return router
}

func staticHandler(staticPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := filepath.Join(staticPath, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(staticPath, "index.html"))
	}
}

func wsHandler(cfg *config.Config, registry *room.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		identity := clientIdentity(c.Request)
		conn := newWSConn(sock, identity, cfg.SendBuffer)
		go conn.writeLoop()

		log.Info().Str("conn", conn.id).Str("identity", identity).Msg("client connected")

		sess := newSession(conn.id, identity, conn, registry)

		defer func() {
			conn.close()
			if sess.room != nil {
				sess.room.Leave(conn.id)
			}
			log.Info().Str("conn", conn.id).Msg("client disconnected")
		}()

		for {
			_, raw, err := sock.ReadMessage()
			if err != nil {
				log.Debug().Str("conn", conn.id).Err(err).Msg("read loop ended")
				return
			}
			sess.handle(raw)
		}
	}
}
