package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fynans/fynans-api/api"
	"github.com/fynans/fynans-api/api/scheduler"
	"github.com/fynans/fynans-api/config"
	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/notifications"
	"github.com/fynans/fynans-api/realtime"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	Engine   *notifications.Engine
	Gateway  *realtime.Gateway
	Metrics  *api.DeliveryMetrics
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.RequestLogMiddleware)

	n := Notification{DB: databases.NewNotificationDatabase(a.dbHelper), Engine: a.Engine}
	p := Preference{Store: &notifications.PreferenceStore{DB: databases.NewPreferenceDatabase(a.dbHelper)}}
	d := Device{Registry: &notifications.DeviceRegistry{DB: databases.NewDeviceTokenDatabase(a.dbHelper)}}
	metrics := Metrics{Collector: a.Metrics}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket gateway authenticates its own handshake
	r.HandleFunc("/ws/notifications", a.Gateway.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/socket-token", api.Middleware(http.HandlerFunc(m.CreateSocketToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/notifications", api.Middleware(http.HandlerFunc(n.CreateNotificationHandler))).Methods("POST")
	apiCreate.Handle("/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(n.MarkNotificationAsReadHandler))).Methods("PUT")
	apiCreate.Handle("/notifications/{notification_id}", api.Middleware(http.HandlerFunc(n.DeleteNotificationHandler))).Methods("DELETE")

	apiCreate.Handle("/users/{user_id}/notifications", api.Middleware(http.HandlerFunc(n.GetUserNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/users/{user_id}/notifications/unread-count", api.Middleware(http.HandlerFunc(n.UnreadCountHandler))).Methods("GET")
	apiCreate.Handle("/users/{user_id}/notifications/read-all", api.Middleware(http.HandlerFunc(n.MarkAllNotificationsAsReadHandler))).Methods("PUT")

	apiCreate.Handle("/users/{user_id}/notification-preferences", api.Middleware(http.HandlerFunc(p.GetPreferencesHandler))).Methods("GET")
	apiCreate.Handle("/users/{user_id}/notification-preferences", api.Middleware(http.HandlerFunc(p.UpdatePreferencesHandler))).Methods("PUT")

	apiCreate.Handle("/users/{user_id}/devices", api.Middleware(http.HandlerFunc(d.RegisterDeviceHandler))).Methods("POST")
	apiCreate.Handle("/users/{user_id}/devices", api.Middleware(http.HandlerFunc(d.UnregisterDeviceHandler))).Methods("DELETE")
	apiCreate.Handle("/users/{user_id}/devices", api.Middleware(http.HandlerFunc(d.ListDevicesHandler))).Methods("GET")

	apiCreate.Handle("/metrics/deliveries", api.Middleware(http.HandlerFunc(metrics.DeliveriesHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("fynans-api has connected to the database")

	a.Metrics = api.NewDeliveryMetrics()
	a.Gateway = realtime.NewGateway([]byte(a.Config.JWTSecret))

	prefs := &notifications.PreferenceStore{DB: databases.NewPreferenceDatabase(a.dbHelper)}
	devices := &notifications.DeviceRegistry{DB: databases.NewDeviceTokenDatabase(a.dbHelper)}
	dispatcher := &notifications.Dispatcher{
		Devices: devices,
		Push:    notifications.NewExpoPushClient(a.Config.ExpoPushURL),
		Emitter: a.Gateway,
		Metrics: a.Metrics,
	}
	a.Engine = &notifications.Engine{
		Prefs:      prefs,
		DB:         databases.NewNotificationDatabase(a.dbHelper),
		Dispatcher: dispatcher,
	}

	a.Router = a.New()

	s := scheduler.New(&a.Config, a.dbHelper, a.Engine)
	s.Start()

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"alive": true}`)
}
