package database

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

// One collector per test binary; registering twice would panic.
var testMetrics = metrics.NewCollector("glaucoma_database_test")

func TestInstrumentRegistersCallbacks(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Instrument(db, testMetrics))

	for _, op := range []string{"create", "query", "update", "delete", "row", "raw"} {
		assert.NotNil(t, callbackByName(db, op, "metrics:before_"+op), "before callback for %s", op)
		assert.NotNil(t, callbackByName(db, op, "metrics:after_"+op), "after callback for %s", op)
	}
}

func TestInstrumentObservesQueryDuration(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Instrument(db, testMetrics))

	tx := db.Session(&gorm.Session{})
	tx.Statement.Table = "clinical.patients"

	callbackByName(db, "query", "metrics:before_query")(tx)
	callbackByName(db, "query", "metrics:after_query")(tx)

	count := testutil.CollectAndCount(testMetrics.DBQueryDuration,
		"glaucoma_database_test_db_query_duration_seconds")
	assert.Equal(t, 1, count)
}

func callbackByName(db *gorm.DB, op, name string) func(*gorm.DB) {
	switch op {
	case "create":
		return db.Callback().Create().Get(name)
	case "query":
		return db.Callback().Query().Get(name)
	case "update":
		return db.Callback().Update().Get(name)
	case "delete":
		return db.Callback().Delete().Get(name)
	case "row":
		return db.Callback().Row().Get(name)
	default:
		return db.Callback().Raw().Get(name)
	}
}
