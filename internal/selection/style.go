package selection

// StyleSpec is how a state polygon is painted.
type StyleSpec struct {
	StrokeColor string  `yaml:"stroke"`
	FillColor   string  `yaml:"fill"`
	FillOpacity float64 `yaml:"opacity"`
	StrokeWidth float64 `yaml:"width"`
}

var (
	DefaultStyle = StyleSpec{
		StrokeColor: "#FFFFFF",
		FillColor:   "#0000FF",
		FillOpacity: 0.3,
		StrokeWidth: 2,
	}
	HoverStyle = StyleSpec{
		StrokeColor: "#FFFFFF",
		FillColor:   "#0000FF",
		FillOpacity: 0.5,
		StrokeWidth: 2,
	}
	HighlightStyle = StyleSpec{
		StrokeColor: "#FFFFFF",
		FillColor:   "#FFFF00",
		FillOpacity: 0.5,
		StrokeWidth: 2,
	}
)

// Styles bundles the three layers a feature can be painted with.
type Styles struct {
	Default   StyleSpec `yaml:"default"`
	Hover     StyleSpec `yaml:"hover"`
	Highlight StyleSpec `yaml:"highlight"`
}

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{Default: DefaultStyle, Hover: HoverStyle, Highlight: HighlightStyle}
}

// Resolver layers styles in a fixed order: base, then hover, then selection.
// A later layer wins over an earlier one.
type Resolver struct {
	styles Styles
}

func NewResolver(styles Styles) Resolver {
	return Resolver{styles: styles}
}

// Resolve returns the style for a feature given whether it is hovered and selected.
func (r Resolver) Resolve(hovered, selected bool) StyleSpec {
	s := r.styles.Default
	if hovered {
		s = r.styles.Hover
	}
	if selected {
		s = r.styles.Highlight
	}
	return s
}
