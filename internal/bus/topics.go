package bus

// Topics consumed by the core.
const (
	TopicTurnStart        = "turn:start"
	TopicTurnEnding       = "turn:ending"
	TopicActionStart      = "action:start_research"
	TopicActionCancel     = "action:cancel_research"
	TopicActionAllocate   = "action:allocate_research_compute"
	TopicDeploymentActive = "deployment:active"
	TopicStateLoaded      = "stateLoaded"
)

// Topics produced by the core.
const (
	TopicResearchInitialized     = "research:initialized"
	TopicResearchProgress        = "research:progress"
	TopicResearchCompleted       = "research:completed"
	TopicResearchStarted         = "research:started"
	TopicResearchCancelled       = "research:cancelled"
	TopicResearchComputeAlloc    = "research:compute_allocated"
	TopicResearchStatusesUpdated = "research:statuses_updated"
	TopicResearchBoostsUpdated   = "research:boosts:updated"

	TopicResourceAllocate       = "resource:allocate"
	TopicResourceDeallocate     = "resource:deallocate"
	TopicResourceEffect         = "resource:effect"
	TopicResourceEffectsUpdated = "resource:effects:updated"

	TopicDeploymentUnlock   = "deployment:unlock"
	TopicDeploymentCapacity = "deployment:capacity"

	TopicResourcesSpent      = "resources:spent"
	TopicResourceSpendFailed = "resource:spend:failed"

	TopicGameEvent    = "game:event"
	TopicStateChanged = "stateChanged"
	TopicGameSaved    = "game:saved"
)
