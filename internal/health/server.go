package health

import (
	"net/http"
	"time"

	"ticket-relay-bot/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const REQUEST_ID_HEADER = "X-Request-Id"

// NewRouter отвечает 200 на любой запрос: хостингу нужно только знать, что процесс жив.
func NewRouter() *gin.Engine {
	app := gin.New()
	app.Use(gin.Recovery(), requestID())
	if logger.IsDebug() {
		app.Use(gin.Logger())
	}

	app.NoRoute(alive)

	return app
}

func New(listen string) *http.Server {
	return &http.Server{
		Addr:              listen,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func alive(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(REQUEST_ID_HEADER, id)
		c.Next()
	}
}
