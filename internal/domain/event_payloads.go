package domain

// MaterialRefinedPayload is the event payload for material.refined events
type MaterialRefinedPayload struct {
	JobID          string  `json:"job_id"`
	OwnerID        string  `json:"owner_id"`
	MaterialType   string  `json:"material_type"`
	Tier           int     `json:"tier"`
	InputQuantity  int     `json:"input_quantity"`
	OutputQuantity int     `json:"output_quantity"`
	Waste          int     `json:"waste"`
	Cycles         int     `json:"cycles"`
	InputPurity    float64 `json:"input_purity"`
	OutputPurity   float64 `json:"output_purity"`
	Timestamp      int64   `json:"timestamp"`
}

// RefiningCollectedPayload is the event payload for refining.collected events
type RefiningCollectedPayload struct {
	JobID         string `json:"job_id"`
	OwnerID       string `json:"owner_id"`
	OutputStackID string `json:"output_stack_id"`
	Quantity      int    `json:"quantity"`
	Timestamp     int64  `json:"timestamp"`
}

// MaterialPurifiedPayload is the event payload for material.purified events
type MaterialPurifiedPayload struct {
	OwnerID      string  `json:"owner_id"`
	StackID      string  `json:"stack_id"`
	MaterialType string  `json:"material_type"`
	RiskMode     string  `json:"risk_mode"`
	Outcome      string  `json:"outcome"`
	Cost         int     `json:"cost"`
	OldPurity    float64 `json:"old_purity"`
	NewPurity    float64 `json:"new_purity"`
	OldGrade     string  `json:"old_grade"`
	NewGrade     string  `json:"new_grade"`
	Timestamp    int64   `json:"timestamp"`
}

// MaterialConsolidatedPayload is the event payload for material.consolidated events
type MaterialConsolidatedPayload struct {
	OwnerID      string   `json:"owner_id"`
	StackID      string   `json:"stack_id"`
	MergedIDs    []string `json:"merged_ids"`
	MaterialType string   `json:"material_type"`
	Quantity     int      `json:"quantity"`
	Purity       float64  `json:"purity"`
	Timestamp    int64    `json:"timestamp"`
}

// ManufacturingPayload is the event payload for manufacturing.* events
type ManufacturingPayload struct {
	JobID       string             `json:"job_id"`
	OwnerID     string             `json:"owner_id"`
	BlueprintID string             `json:"blueprint_id"`
	BatchSize   int                `json:"batch_size"`
	Stats       map[string]float64 `json:"stats,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Timestamp   int64              `json:"timestamp"`
}
