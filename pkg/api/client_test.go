package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// newTestServer runs a mux-routed stand-in for the assistant backend and
// returns a client pointed at it.
func newTestServer(t *testing.T, route func(r *mux.Router)) *Client {
	t.Helper()
	r := mux.NewRouter()
	route(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL, Options{})
}

func TestHistoryQueryParams(t *testing.T) {
	var gotUser, gotLimit, gotBefore string
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/chat/history-paged", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			gotUser, gotLimit, gotBefore = q.Get("userId"), q.Get("limit"), q.Get("beforeId")
			json.NewEncoder(w).Encode([]map[string]any{
				{"_id": "m2", "text": "b", "sender": "assistant"},
				{"_id": "m1", "text": "a", "sender": "user"},
			})
		}).Methods("GET")
	})

	page, err := c.History(context.Background(), 7, 50, "m1")
	require.NoError(t, err)
	require.Equal(t, "7", gotUser)
	require.Equal(t, "50", gotLimit)
	require.Equal(t, "m1", gotBefore)
	require.Len(t, page, 2)
	require.Equal(t, "m2", page[0].ID.String())
}

func TestHistoryOmitsEmptyCursor(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/chat/history-paged", func(w http.ResponseWriter, req *http.Request) {
			if _, ok := req.URL.Query()["beforeId"]; ok {
				http.Error(w, `{"error":"unexpected cursor"}`, http.StatusBadRequest)
				return
			}
			w.Write([]byte(`[]`))
		}).Methods("GET")
	})
	_, err := c.History(context.Background(), 7, 50, "")
	require.NoError(t, err)
}

func TestFetchErrorCarriesStatusAndMessage(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/chat/history-paged", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"database unavailable"}`))
		}).Methods("GET")
	})
	_, err := c.History(context.Background(), 7, 50, "")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusInternalServerError, fe.Status)
	require.Equal(t, "database unavailable", fe.Message)
	require.Equal(t, "/chat/history-paged", fe.Endpoint)
}

func TestFetchErrorTransport(t *testing.T) {
	c := New("http://127.0.0.1:1", Options{})
	_, err := c.History(context.Background(), 7, 50, "")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Zero(t, fe.Status)
	require.Error(t, errors.Unwrap(err))
}

func TestSendChatBodyAndReply(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		UserID int64 `json:"userId"`
	}
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/chat", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			json.NewEncoder(w).Encode("hi there")
		}).Methods("POST")
	})

	reply, err := c.SendChat(context.Background(), 7, "hello")
	require.NoError(t, err)
	require.Equal(t, "hi there", reply)
	require.Equal(t, int64(7), body.UserID)
	require.Len(t, body.Messages, 1)
	require.Equal(t, "user", body.Messages[0].Role)
	require.Equal(t, "hello", body.Messages[0].Content)
}

func TestSendChatBareTextReply(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/chat", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte("plain reply\n"))
		}).Methods("POST")
	})
	reply, err := c.SendChat(context.Background(), 7, "hello")
	require.NoError(t, err)
	require.Equal(t, "plain reply", reply)
}

func TestActiveRepeatedNotifications(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/notifications/active-repeated-notifications", func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, "7", req.URL.Query().Get("user_id"))
			w.Write([]byte(`{"notifications":[{"id":3,"message":"drink water","cron":"0 * * * *"}]}`))
		}).Methods("GET")
	})
	notifs, err := c.ActiveRepeatedNotifications(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, int64(3), notifs[0].ID)
	require.Equal(t, "drink water", notifs[0].Message)
}

func TestStopRepeatedBody(t *testing.T) {
	var got map[string]int64
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/notifications/stop", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}).Methods("POST")
	})
	require.NoError(t, c.StopRepeated(context.Background(), 42))
	require.Equal(t, int64(42), got["repeated_setting_id"])
}

func TestTaskCRUDDecodesRecords(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/tasks", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"task_id":12,"task_description":"write report"}`))
		}).Methods("POST")
		r.HandleFunc("/tasks/{id}", func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, "12", mux.Vars(req)["id"])
			w.Write([]byte(`{"task_id":12,"task_description":"write the report"}`))
		}).Methods("PUT")
	})

	created, err := c.CreateTask(context.Background(), 7, "write report")
	require.NoError(t, err)
	require.Equal(t, int64(12), created.TaskID)

	updated, err := c.UpdateTask(context.Background(), 7, created.TaskID, "write the report")
	require.NoError(t, err)
	require.Equal(t, "write the report", updated.Description)
}

func TestLoginDecodesUser(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var creds map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
			require.Equal(t, "t@example.com", creds["email"])
			w.Write([]byte(`{"user_id":7,"name":"tester","email":"t@example.com"}`))
		}).Methods("POST")
	})
	u, err := c.Login(context.Background(), "t@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.UserID)
	require.Equal(t, "tester", u.Name)
}

func TestLoginRejected(t *testing.T) {
	c := newTestServer(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		}).Methods("POST")
	})
	_, err := c.Login(context.Background(), "t@example.com", "wrong")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusUnauthorized, fe.Status)
	require.Equal(t, "invalid credentials", fe.Message)
}
