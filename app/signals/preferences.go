package signals

// Preferences is the fully resolved topic preference set of one user.
type Preferences struct {
	LLMs       bool `json:"topicsLLMs"`
	Agents     bool `json:"topicsAgents"`
	Vision     bool `json:"topicsVision"`
	Robotics   bool `json:"topicsRobotics"`
	Audio      bool `json:"topicsAudio"`
	OpenSource bool `json:"topicsOpenSource"`
	Startups   bool `json:"topicsStartups"`
	Policy     bool `json:"topicsPolicy"`
}

// PreferenceOverrides is a partial snapshot; nil fields keep the default.
type PreferenceOverrides struct {
	LLMs       *bool `json:"topicsLLMs,omitempty"`
	Agents     *bool `json:"topicsAgents,omitempty"`
	Vision     *bool `json:"topicsVision,omitempty"`
	Robotics   *bool `json:"topicsRobotics,omitempty"`
	Audio      *bool `json:"topicsAudio,omitempty"`
	OpenSource *bool `json:"topicsOpenSource,omitempty"`
	Startups   *bool `json:"topicsStartups,omitempty"`
	Policy     *bool `json:"topicsPolicy,omitempty"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		LLMs:   true,
		Agents: true,
	}
}

// ResolvePreferences merges overrides on top of DefaultPreferences.
func ResolvePreferences(o *PreferenceOverrides) Preferences {
	p := DefaultPreferences()
	if o == nil {
		return p
	}

	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&p.LLMs, o.LLMs)
	apply(&p.Agents, o.Agents)
	apply(&p.Vision, o.Vision)
	apply(&p.Robotics, o.Robotics)
	apply(&p.Audio, o.Audio)
	apply(&p.OpenSource, o.OpenSource)
	apply(&p.Startups, o.Startups)
	apply(&p.Policy, o.Policy)

	return p
}

func (p Preferences) Enabled(t Topic) bool {
	switch t {
	case TopicLLMs:
		return p.LLMs
	case TopicAgents:
		return p.Agents
	case TopicVision:
		return p.Vision
	case TopicRobotics:
		return p.Robotics
	case TopicAudio:
		return p.Audio
	case TopicOpenSource:
		return p.OpenSource
	case TopicStartups:
		return p.Startups
	case TopicPolicy:
		return p.Policy
	default:
		return false
	}
}
