/* models.go
 * Contains the web server configuration and the Server type handlers hang off
 * Authors: Jamie Barkway
 */

package web

import (
	"github.com/JamieBarkway/group-bet/api/api"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Config holds the configuration for the web server
type Config struct {
	Addr   string
	API    *api.API
	Logger *zap.SugaredLogger
}

// Server is the HTTP server that exposes the pool over REST
type Server struct {
	api      *api.API
	log      *zap.SugaredLogger
	validate *validator.Validate
}

// NewServer builds a Server around an API instance
func NewServer(apiPtr *api.API, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		api:      apiPtr,
		log:      logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}
