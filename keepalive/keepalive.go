package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emicklei/go-restful"
	"github.com/sirupsen/logrus"
)

//Pong is the response body served on /ping.
type Pong struct {
	Status string
	Uptime string
}

//Server is a minimal HTTP service that uptime monitors can poll to keep the
//bot host awake.
type Server struct {
	httpServer *http.Server
	startedAt  time.Time
}

//Start builds the ping service and begins listening on the given port.
func Start(port int) *Server {
	srv := &Server{
		startedAt: time.Now(),
	}

	container := restful.NewContainer()
	service := new(restful.WebService)
	service.
		Path("/ping").
		Produces(restful.MIME_JSON)
	service.Route(service.GET("").To(srv.ping))
	container.Add(service)

	srv.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: container,
	}
	go func() {
		logrus.Infof("Keepalive service listening on port %d", port)
		err := srv.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Errorf("Keepalive service stopped due to error %v", err)
		}
	}()
	return srv
}

func (srv *Server) ping(req *restful.Request, resp *restful.Response) {
	pong := Pong{
		Status: "ok",
		Uptime: time.Since(srv.startedAt).Round(time.Second).String(),
	}
	err := resp.WriteEntity(pong)
	if err != nil {
		logrus.Warnf("Failed to write keepalive response due to error %v", err)
	}
}

//Close shuts the ping service down, waiting briefly for in-flight requests.
func (srv *Server) Close() {
	logrus.Info("Terminating keepalive service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.httpServer.Shutdown(ctx)
}
