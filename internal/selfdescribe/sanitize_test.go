package selfdescribe

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// rawFixture is a trimmed self-description covering both union shapes.
const rawFixture = `{
  "GenericMonitorConfig": {"fields": [{"yamlName": "intervalSeconds"}]},
  "GenericObserverConfig": {"fields": []},
  "SourceConfig": {"fields": []},
  "TopConfig": {"fields": []},
  "Observers": [
    {
      "observerType": "k8s-api",
      "name": "k8s-api",
      "doc": "Discovers pods",
      "package": "pkg/observers/kubernetes",
      "fields": [{"yamlName": "kubernetesAPI"}],
      "endpointVariables": [{"name": "pod_name"}],
      "dimensions": ["kubernetes_pod_name", {"name": "kubernetes_namespace", "description": "ns"}]
    }
  ],
  "Monitors": [
    {
      "monitorType": "docker-container-stats",
      "name": "docker-container-stats",
      "doc": "Reads container stats",
      "package": "pkg/monitors/docker",
      "config": {"fields": []},
      "groups": {"cpu": {}},
      "fields": [{"yamlName": "dockerURL"}],
      "sendAll": false,
      "metrics": {
        "cpu.usage.total": {"type": "cumulative", "description": "Total CPU", "included": true},
        "memory.usage.limit": {"type": "gauge", "default": false}
      },
      "dimensions": [
        {"name": "container_id", "description": "The container id"},
        "container_name"
      ],
      "properties": [
        {"name": "container_status", "dimension": ["container_id"], "description": "Status"},
        {"name": "container_image", "dimension": "container_name"}
      ]
    },
    {
      "monitorType": "collectd/cpu",
      "metrics": [{"name": "cpu.idle", "included": false}],
      "dimensions": null,
      "properties": null
    },
    {
      "monitorType": "internal-metrics"
    }
  ]
}`

func decodeFixture(t *testing.T, s string) domain.SelfDescribe {
	t.Helper()
	var raw domain.SelfDescribe
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestSanitize_Nil(t *testing.T) {
	s, err := Sanitize(nil)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSanitize_Observers(t *testing.T) {
	s, err := Sanitize(decodeFixture(t, rawFixture))
	require.NoError(t, err)
	require.Len(t, s.Observers, 1)

	o := s.Observers[0]
	assert.Equal(t, "k8s-api", o.Type)
	assert.Equal(t, []string{"kubernetes_pod_name", "kubernetes_namespace"}, o.Dimensions)
	for _, f := range ObserverRedactedFields {
		assert.NotContains(t, o.Attributes, f)
	}
}

func TestSanitize_Monitors(t *testing.T) {
	s, err := Sanitize(decodeFixture(t, rawFixture))
	require.NoError(t, err)
	require.Len(t, s.Monitors, 3)

	m := s.Monitors[0]
	assert.Equal(t, "docker-container-stats", m.Type)
	assert.Equal(t, []string{"container_id", "container_name"}, m.Dimensions)
	assert.Equal(t, map[string]any{"sendAll": false}, m.Attributes)

	t.Run("metrics are keyed by name", func(t *testing.T) {
		require.Contains(t, m.Metrics, "cpu.usage.total")
		require.Contains(t, m.Metrics, "memory.usage.limit")
		total := m.Metrics["cpu.usage.total"]
		assert.Equal(t, true, total["default"])
		assert.NotContains(t, total, "included")
		assert.Equal(t, "Total CPU", total["description"])
		assert.Equal(t, false, m.Metrics["memory.usage.limit"]["default"])
	})

	t.Run("properties lose name and description", func(t *testing.T) {
		require.Contains(t, m.Properties, "container_status")
		status := m.Properties["container_status"]
		assert.NotContains(t, status, "name")
		assert.NotContains(t, status, "description")
		assert.Equal(t, []any{"container_id"}, status["dimension"])
		assert.Equal(t, "container_name", m.Properties["container_image"]["dimension"])
	})

	t.Run("list shaped metrics", func(t *testing.T) {
		cpu := s.Monitors[1]
		require.Contains(t, cpu.Metrics, "cpu.idle")
		assert.Equal(t, domain.Record{"default": false}, cpu.Metrics["cpu.idle"])
		assert.Empty(t, cpu.Dimensions)
		assert.Empty(t, cpu.Properties)
	})

	t.Run("absent collections are empty", func(t *testing.T) {
		internal := s.Monitors[2]
		assert.Empty(t, internal.Metrics)
		assert.Empty(t, internal.Dimensions)
		assert.Empty(t, internal.Properties)
		assert.Empty(t, internal.Attributes)
	})
}

func TestSanitize_NoNameInRebuiltMappings(t *testing.T) {
	s, err := Sanitize(decodeFixture(t, rawFixture))
	require.NoError(t, err)

	for _, m := range s.Monitors {
		for name, rec := range m.Metrics {
			assert.NotContains(t, rec, "name", "metric %s", name)
			assert.NotContains(t, rec, "included", "metric %s", name)
		}
		for name, rec := range m.Properties {
			assert.NotContains(t, rec, "name", "property %s", name)
		}
	}
}

func TestSanitize_SchemaFieldsNeverReachOutput(t *testing.T) {
	s, err := Sanitize(decodeFixture(t, rawFixture))
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	for _, f := range SchemaFields {
		assert.False(t, strings.Contains(string(out), f), "found %s", f)
	}
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	raw := decodeFixture(t, rawFixture)
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Sanitize(raw)
	require.NoError(t, err)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestSanitize_EmptyDocument(t *testing.T) {
	s, err := Sanitize(domain.SelfDescribe{})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Empty(t, s.Observers)
	assert.Empty(t, s.Monitors)
}

func TestSanitize_MalformedEntry(t *testing.T) {
	raw := decodeFixture(t, `{
		"Observers": [],
		"Monitors": [{"monitorType": "bad", "dimensions": [7]}]
	}`)

	_, err := Sanitize(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedEntry)
	assert.Contains(t, err.Error(), "Monitors[0]")
}

func TestSanitize_NonListEntities(t *testing.T) {
	_, err := Sanitize(domain.SelfDescribe{"Observers": "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
