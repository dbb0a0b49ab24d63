package utils

import (
	"log"
	"reflect"
	"runtime"
	"strings"

	"github.com/gorilla/mux"
)

// RoutesSummary logs every route registered on the router. Handy when
// bringing the gateway up.
func RoutesSummary(r *mux.Router, logger *log.Logger) {
	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			logger.Println("ROUTE:", pathTemplate)
		}
		methods, err := route.GetMethods()
		if err == nil {
			logger.Println("Methods:", strings.Join(methods, ","))
		}
		if v := reflect.ValueOf(route.GetHandler()); v.Kind() == reflect.Func {
			logger.Println("HandlerFn: ", runtime.FuncForPC(v.Pointer()).Name())
		}
		logger.Println()
		return nil
	})

	if err != nil {
		logger.Println(err)
	}
}
