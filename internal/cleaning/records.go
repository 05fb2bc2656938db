package cleaning

import (
	"cdicorr/adapters/datareadiness/coercer"
	"cdicorr/domain/core"
	"cdicorr/domain/dataset"
	"cdicorr/domain/health"
)

// HealthRecords converts the cleaned table into typed records in row order.
// DataValue cells that do not parse become absent rather than failing the row.
func HealthRecords(table *dataset.Table, c *coercer.NumericCoercer) ([]health.HealthRecord, error) {
	for _, col := range health.RequiredColumns {
		if !table.HasColumn(col) {
			return nil, core.NewMissingColumnError("health table", col)
		}
	}

	values := c.CoerceColumn(table.Column(health.ColDataValue))
	records := make([]health.HealthRecord, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = health.HealthRecord{
			Index:          i,
			LocationAbbr:   row[health.ColLocationAbbr],
			Question:       row[health.ColQuestion],
			Stratification: row[health.ColStratification],
			DataValue:      values[i],
			DataValueUnit:  row[health.ColDataValueUnit],
		}
	}
	return records, nil
}
