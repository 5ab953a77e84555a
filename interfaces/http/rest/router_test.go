package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backtrace-backend/application/engine"
	"backtrace-backend/application/ports"
	"backtrace-backend/application/search"
	"backtrace-backend/infrastructure/config"
	"backtrace-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	blocks []ports.ContentBlock
	err    error
}

func (s stubProvider) Search(ctx context.Context, question string) ([]ports.ContentBlock, error) {
	return s.blocks, s.err
}

func newTestServer(t *testing.T, provider ports.SearchProvider) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore(logger)
	eng := engine.New(store.Nodes(), store.Edges(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go eng.Run(ctx)

	router := NewRouter(
		&config.Config{},
		eng,
		search.NewService(provider, logger),
		nil,
		logger,
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func fetchGraph(t *testing.T, baseURL string) map[string]interface{} {
	t.Helper()

	resp, err := http.Get(baseURL + "/api/v1/graph")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var graph map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&graph))
	return graph
}

func graphCounts(t *testing.T, baseURL string) (nodes, edges int) {
	graph := fetchGraph(t, baseURL)
	if ns, ok := graph["nodes"].([]interface{}); ok {
		nodes = len(ns)
	}
	if es, ok := graph["edges"].([]interface{}); ok {
		edges = len(es)
	}
	return nodes, edges
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestCreateResourceNode(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	resp, body := postJSON(t, srv.URL+"/api/v1/nodes/resource",
		`{"name":"Linear Algebra Done Right","link":"https://example.com/ladr","resourceType":"book","topicTag":"math"}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "resource", body["nodeType"])
	assert.Equal(t, "book", body["resourceType"])

	require.Eventually(t, func() bool {
		nodes, _ := graphCounts(t, srv.URL)
		return nodes == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreateResourceValidation(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	resp, _ := postJSON(t, srv.URL+"/api/v1/nodes/resource", `{"link":"https://example.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/api/v1/nodes/resource",
		`{"name":"x","link":"https://example.com","resourceType":"vinyl"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	nodes, _ := graphCounts(t, srv.URL)
	assert.Zero(t, nodes)
}

func TestConnectedCreationAndCascadeDelete(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, question := postJSON(t, srv.URL+"/api/v1/nodes/question",
		`{"question":"What is a determinant?"}`)
	questionID := question["id"].(string)

	resp, resource := postJSON(t, srv.URL+"/api/v1/nodes/resource",
		fmt.Sprintf(`{"name":"3b1b","link":"https://example.com/det","connectTo":%q}`, questionID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		nodes, edges := graphCounts(t, srv.URL)
		return nodes == 2 && edges == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The edge points from the resource to the question it addresses
	graph := fetchGraph(t, srv.URL)
	edge := graph["edges"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, resource["id"], edge["source"])
	assert.Equal(t, questionID, edge["target"])

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/nodes/"+resource["id"].(string), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		nodes, edges := graphCounts(t, srv.URL)
		return nodes == 1 && edges == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUpdateLevelAndPosition(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, question := postJSON(t, srv.URL+"/api/v1/nodes/question",
		`{"question":"Why is the sky blue?","answeredLevel":0.2}`)
	questionID := question["id"].(string)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/nodes/"+questionID+"/level",
		`{"answeredLevel":0.9}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/nodes/"+questionID+"/position",
		`{"x":120.5,"y":-40}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		graph := fetchGraph(t, srv.URL)
		nodes, _ := graph["nodes"].([]interface{})
		if len(nodes) != 1 {
			return false
		}
		data := nodes[0].(map[string]interface{})["data"].(map[string]interface{})
		pos, _ := data["position"].(map[string]interface{})
		return data["answeredLevel"] == 0.9 && pos != nil && pos["x"] == 120.5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLevelValidationRejectsOutOfRange(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, question := postJSON(t, srv.URL+"/api/v1/nodes/question", `{"question":"q"}`)
	questionID := question["id"].(string)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/nodes/"+questionID+"/level",
		`{"answeredLevel":1.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConnectExistingNodes(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, a := postJSON(t, srv.URL+"/api/v1/nodes/question", `{"question":"a"}`)
	_, b := postJSON(t, srv.URL+"/api/v1/nodes/question", `{"question":"b"}`)

	resp, edge := postJSON(t, srv.URL+"/api/v1/edges",
		fmt.Sprintf(`{"source":%q,"target":%q}`, a["id"], b["id"]))

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, a["id"], edge["source"])
	assert.Equal(t, b["id"], edge["target"])
	assert.Equal(t, "default", edge["type"])
}

func TestPendingConnectionFlow(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, question := postJSON(t, srv.URL+"/api/v1/nodes/question", `{"question":"What is entropy?"}`)
	questionID := question["id"].(string)

	resp, pending := postJSON(t, srv.URL+"/api/v1/pending/resource",
		fmt.Sprintf(`{"questionId":%q}`, questionID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "resource", pending["kind"])
	assert.Equal(t, questionID, pending["connectTo"])

	resp, _ = postJSON(t, srv.URL+"/api/v1/pending/resource/submit",
		`{"name":"Entropy explained","link":"https://example.com/entropy"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The pending state is consumed by a successful submit
	resp2, err := http.Get(srv.URL + "/api/v1/pending")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var cleared map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&cleared))
	assert.Equal(t, "", cleared["kind"])

	require.Eventually(t, func() bool {
		nodes, edges := graphCounts(t, srv.URL)
		return nodes == 2 && edges == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCancelPending(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	_, question := postJSON(t, srv.URL+"/api/v1/nodes/question", `{"question":"q"}`)

	postJSON(t, srv.URL+"/api/v1/pending/question",
		fmt.Sprintf(`{"resourceId":%q}`, question["id"]))

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/pending", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/api/v1/pending")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var cleared map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&cleared))
	assert.Equal(t, "", cleared["kind"])
}

func TestSearchEndpoint(t *testing.T) {
	title := "Introduction to Information Theory"
	srv := newTestServer(t, stubProvider{
		blocks: []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "A thorough introduction covering entropy and coding.",
				Citations: []ports.Citation{
					{
						Type:  ports.CitationTypeWebSearchLocation,
						URL:   "https://example.com/info-theory",
						Title: &title,
					},
				},
			},
		},
	})

	resp, body := postJSON(t, srv.URL+"/api/v1/search", `{"question":"What is entropy?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sources := body["sources"].([]interface{})
	require.Len(t, sources, 1)
	source := sources[0].(map[string]interface{})
	assert.Equal(t, "https://example.com/info-theory", source["url"])
	assert.Equal(t, title, source["title"])
	assert.Equal(t, "A thorough introduction covering entropy and coding.", source["summary"])
}

func TestSearchRequiresQuestion(t *testing.T) {
	srv := newTestServer(t, stubProvider{})

	resp, _ := postJSON(t, srv.URL+"/api/v1/search", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
