package game

// EffectBundle is the derived multiplier/bonus set produced by folding
// over all active effect sources. It is always recomputed from scratch,
// never updated incrementally, so it cannot drift from its sources.
type EffectBundle struct {
	ComputingEfficiency  float64                      `json:"computingEfficiency"`
	FundingMultiplier    float64                      `json:"fundingMultiplier"`
	InfluenceMultipliers map[InfluenceChannel]float64 `json:"influenceMultipliers"`
	DataQualityBonus     float64                      `json:"dataQualityBonus"`
	FundingGeneration    float64                      `json:"fundingGeneration"`
	InfluenceGeneration  map[InfluenceChannel]float64 `json:"influenceGeneration"`
}

// NeutralEffects returns the identity bundle: all multipliers 1, all
// bonuses 0.
func NeutralEffects() EffectBundle {
	mult := make(map[InfluenceChannel]float64, len(InfluenceChannels))
	gen := make(map[InfluenceChannel]float64, len(InfluenceChannels))
	for _, ch := range InfluenceChannels {
		mult[ch] = 1.0
		gen[ch] = 0
	}
	return EffectBundle{
		ComputingEfficiency:  1.0,
		FundingMultiplier:    1.0,
		InfluenceMultipliers: mult,
		InfluenceGeneration:  gen,
	}
}

// Fold composes one source's declared effects into the bundle.
// Multipliers compose multiplicatively as Π(1+δ); bonuses and generation
// compose additively.
func (b *EffectBundle) Fold(e Effects) {
	b.ComputingEfficiency *= 1 + e.ComputeEfficiency
	b.FundingMultiplier *= 1 + e.FundingMultiplier
	for _, ch := range InfluenceChannels {
		if d, ok := e.InfluenceMultipliers[ch]; ok {
			b.InfluenceMultipliers[ch] *= 1 + d
		}
		if g, ok := e.InfluenceGeneration[ch]; ok {
			b.InfluenceGeneration[ch] += g
		}
	}
	b.DataQualityBonus += e.DataQualityBonus
	b.FundingGeneration += e.FundingGeneration
}
