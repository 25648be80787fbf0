package selfdescribe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

var testTag = domain.NewVersionTag(domain.Version{
	Commit:     "0123456789abcdef",
	ReleaseTag: "v5.0.0",
}, domain.TaggingCommit)

func allGenerators() map[string]Generator {
	return map[string]Generator{
		"observers":                   ObserverDocs,
		"monitors":                    MonitorDocs,
		"metrics":                     MetricDocs,
		"dimensions-monitor-defined":  MonitorDimensionDocs,
		"dimensions-observer-defined": ObserverDimensionDocs,
		"properties":                  PropertyDocs,
	}
}

func TestGenerators_NilDocument(t *testing.T) {
	for name, gen := range allGenerators() {
		t.Run(name, func(t *testing.T) {
			docs := gen(nil, testTag)
			assert.NotNil(t, docs)
			assert.Empty(t, docs)
		})
	}
}

func TestGenerators_SingleObserverScenario(t *testing.T) {
	raw := decodeFixture(t, `{"Observers":[{"observerType":"host","dimensions":["host_id"]}],"Monitors":[]}`)
	s, err := Sanitize(raw)
	require.NoError(t, err)

	observers := ObserverDocs(s, testTag)
	require.Len(t, observers, 1)
	assert.Equal(t, "host", observers[0]["observerType"])
	assert.Equal(t, []string{"host_id"}, observers[0]["dimensions"])
	assert.Equal(t, "v5.0.0", observers[0]["releaseTag"])
	assert.Equal(t, "0123456789abcdef", observers[0]["sha"])

	assert.Empty(t, MonitorDocs(s, testTag))
	assert.Empty(t, MetricDocs(s, testTag))
	assert.Empty(t, PropertyDocs(s, testTag))
	assert.Empty(t, MonitorDimensionDocs(s, testTag))

	dims := ObserverDimensionDocs(s, testTag)
	require.Len(t, dims, 1)
	assert.Equal(t, domain.FlatDocument{
		"dimension":    "host_id",
		"observerType": "host",
		"releaseTag":   "v5.0.0",
		"sha":          "0123456789abcdef",
	}, dims[0])
}

func twoDimensionMonitor() *domain.Sanitized {
	return &domain.Sanitized{
		Monitors: []domain.Monitor{{
			Type:       "redis",
			Dimensions: []string{"d1", "d2"},
			Metrics: map[string]domain.Record{
				"bytes.used": {"type": "gauge", "default": true},
				"hits":       {"type": "counter"},
			},
			Properties: map[string]domain.Record{
				"p": {"dimension": []any{"d1"}},
			},
			Attributes: map[string]any{"sendAll": false},
		}},
	}
}

func TestMonitorDimensionDocs_PropertyMembership(t *testing.T) {
	docs := MonitorDimensionDocs(twoDimensionMonitor(), testTag)
	require.Len(t, docs, 2)

	byDim := map[string]domain.FlatDocument{}
	for _, d := range docs {
		byDim[d.String("dimension")] = d
	}

	d1 := byDim["d1"]
	require.NotNil(t, d1)
	assert.Equal(t, "redis", d1["monitorType"])
	assert.Contains(t, d1["properties"], "p")
	assert.Len(t, d1["metrics"], 2)

	d2 := byDim["d2"]
	require.NotNil(t, d2)
	assert.NotContains(t, d2["properties"], "p")
	assert.Empty(t, d2["properties"])
}

func TestMetricDocs(t *testing.T) {
	docs := MetricDocs(twoDimensionMonitor(), testTag)
	require.Len(t, docs, 2)

	// Sorted by metric name.
	assert.Equal(t, "bytes.used", docs[0]["metric"])
	assert.Equal(t, "hits", docs[1]["metric"])

	first := docs[0]
	assert.Equal(t, "gauge", first["type"])
	assert.Equal(t, true, first["default"])
	assert.Equal(t, "redis", first["monitorType"])
	assert.Equal(t, []string{"d1", "d2"}, first["dimensions"])
	assert.Contains(t, first["properties"], "p")
	assert.Equal(t, "v5.0.0", first["releaseTag"])
}

func TestMonitorDocs(t *testing.T) {
	docs := MonitorDocs(twoDimensionMonitor(), testTag)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "redis", doc["monitorType"])
	assert.Equal(t, false, doc["sendAll"])
	assert.Equal(t, []string{"d1", "d2"}, doc["dimensions"])
	assert.Len(t, doc["metrics"], 2)
	assert.Len(t, doc["properties"], 1)
}

func TestPropertyDocs(t *testing.T) {
	t.Run("one document per member dimension", func(t *testing.T) {
		s := &domain.Sanitized{Monitors: []domain.Monitor{{
			Type:       "kubernetes-cluster",
			Dimensions: []string{"kubernetes_pod_uid", "kubernetes_node", "kubernetes_namespace"},
			Properties: map[string]domain.Record{
				"pod_phase":  {"dimension": []any{"kubernetes_pod_uid"}},
				"node_ready": {"dimension": "kubernetes_node"},
				"ns_label":   {"dimension": []any{"kubernetes_namespace", "kubernetes_node"}},
			},
		}}}

		docs := PropertyDocs(s, testTag)
		require.Len(t, docs, 4)

		pairs := map[string][]any{}
		for _, d := range docs {
			pairs[d.String("property")] = append(pairs[d.String("property")], d["dimension"])
			assert.Equal(t, "kubernetes-cluster", d["monitorType"])
		}
		assert.Equal(t, []any{"kubernetes_node"}, pairs["node_ready"])
		assert.Equal(t, []any{"kubernetes_pod_uid"}, pairs["pod_phase"])
		assert.ElementsMatch(t, []any{"kubernetes_namespace", "kubernetes_node"}, pairs["ns_label"])
	})

	t.Run("dimensionless monitor still emits each property", func(t *testing.T) {
		s := &domain.Sanitized{Monitors: []domain.Monitor{{
			Type: "host-metadata",
			Properties: map[string]domain.Record{
				"host_kernel_name":    {"dimension": []any{"host"}},
				"host_kernel_release": {},
			},
		}}}

		docs := PropertyDocs(s, testTag)
		require.Len(t, docs, 2)
		for _, d := range docs {
			assert.Contains(t, d, "dimension")
			assert.Nil(t, d["dimension"])
		}
	})

	t.Run("membership outside monitor dimensions is filtered", func(t *testing.T) {
		s := &domain.Sanitized{Monitors: []domain.Monitor{{
			Type:       "m",
			Dimensions: []string{"a"},
			Properties: map[string]domain.Record{
				"p": {"dimension": []any{"missing"}},
			},
		}}}

		assert.Empty(t, PropertyDocs(s, testTag))
	})
}

func TestGenerators_PublishedTagging(t *testing.T) {
	published := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	tag := domain.NewVersionTag(domain.Version{
		Commit:      "abc",
		ReleaseTag:  "v4.20.0",
		PublishedAt: published,
	}, domain.TaggingPublished)

	docs := ObserverDimensionDocs(&domain.Sanitized{
		Observers: []domain.Observer{{Type: "docker", Dimensions: []string{"container_id"}}},
	}, tag)
	require.Len(t, docs, 1)
	assert.Equal(t, "2020-03-04T05:06:07Z", docs[0]["publishedAt"])
	assert.NotContains(t, docs[0], "sha")
	assert.Equal(t, "v4.20.0", docs[0]["releaseTag"])
}

func TestGenerators_DocumentsDoNotShareState(t *testing.T) {
	s := twoDimensionMonitor()
	docs := MetricDocs(s, testTag)
	require.NotEmpty(t, docs)

	dims := docs[0]["dimensions"].([]string)
	dims[0] = "mutated"
	assert.Equal(t, "d1", s.Monitors[0].Dimensions[0])
}
