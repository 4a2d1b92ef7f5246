package web

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/gltf_inheritance/pipeline"
	"github.com/mogaika/gltf_inheritance/reconcile"
	"github.com/mogaika/gltf_inheritance/rig"
	"github.com/mogaika/gltf_inheritance/status"
)

const testRig = `
armatures:
  - name: Tail
    bones:
      - name: base
        children:
          - name: tip
            translation: [0, 1, 0]
            inherit_rotation: false
            inherit_scale: NONE
`

func newTestServer(t *testing.T) *httptest.Server {
	p, err := reconcile.NewPipeline(pipeline.Version)
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(p).Router())
	t.Cleanup(srv.Close)
	return srv
}

func upload(t *testing.T, url, field string, data []byte) *http.Response {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "upload")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

func TestExportInspectImport(t *testing.T) {
	srv := newTestServer(t)

	resp := upload(t, srv.URL+"/api/export", "rig", []byte(testRig))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	glb := readBody(t, resp)
	assert.True(t, bytes.HasPrefix(glb, []byte("glTF")))
	assert.NotNil(t, status.Default().LastMessage())

	resp = upload(t, srv.URL+"/api/inspect", "gltf", glb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inspected inspectResult
	require.NoError(t, json.Unmarshal(readBody(t, resp), &inspected))
	assert.True(t, inspected.Required)
	require.Len(t, inspected.Nodes, 1)
	assert.Equal(t, "tip", inspected.Nodes[0].Name)
	assert.False(t, inspected.Nodes[0].Descriptor.Inherits("rotation"))
	assert.False(t, inspected.Nodes[0].Descriptor.Inherits("scale"))

	resp = upload(t, srv.URL+"/api/import", "gltf", glb)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scene, err := rig.Load(bytes.NewReader(readBody(t, resp)))
	require.NoError(t, err)
	tip := scene.Armature("Tail").Bone("tip")
	require.NotNil(t, tip)
	assert.False(t, tip.InheritRotation())
	assert.Equal(t, "NONE", string(tip.InheritScale()))
}

func TestImportRejectsTranslationExemption(t *testing.T) {
	srv := newTestServer(t)
	gltfJSON := `{
		"asset": {"version": "2.0"},
		"extensionsUsed": ["EXT_node_tsr_inheritance"],
		"extensionsRequired": ["EXT_node_tsr_inheritance"],
		"nodes": [
			{"name": "root", "children": [1]},
			{"name": "child", "extensions": {"EXT_node_tsr_inheritance": {"translation": false}}}
		],
		"skins": [{"joints": [0, 1]}]
	}`

	resp := upload(t, srv.URL+"/api/import", "gltf", []byte(gltfJSON))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "translation")

	resp = upload(t, srv.URL+"/api/inspect", "gltf", []byte(gltfJSON))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "child")
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)

	resp := upload(t, srv.URL+"/api/export", "wrong", []byte(testRig))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readBody(t, resp)

	resp = upload(t, srv.URL+"/api/import", "gltf", []byte("not gltf"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readBody(t, resp)

	resp, err := http.Get(srv.URL + "/api/version")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(readBody(t, resp)), pipeline.Version))
}
