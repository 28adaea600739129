package deploy

import "sort"

// Kind describes one artifact type that is saved through a metadata
// container. The workflow is identical for every kind; only the sobject
// names and the label in the create-path envelope differ.
type Kind struct {
	// Name is the CLI subcommand, e.g. "apex".
	Name string
	// Label is used in console messages.
	Label string
	// Entity is the sobject holding existing artifacts, queried by Name.
	Entity string
	// Container is the prefix of the MetadataContainer name.
	Container string
	// Member is the sobject attached to the container.
	Member string
	// Extension is the source file suffix.
	Extension string
	// Labelled kinds carry a label in their metadata (pages, components).
	Labelled bool
}

var (
	ApexClass = Kind{
		Name:      "apex",
		Label:     "Apex Class",
		Entity:    "ApexClass",
		Container: "ApexContainer",
		Member:    "ApexClassMember",
		Extension: ".cls",
	}
	ApexTrigger = Kind{
		Name:      "trigger",
		Label:     "Trigger",
		Entity:    "ApexTrigger",
		Container: "TriggerContainer",
		Member:    "ApexTriggerMember",
		Extension: ".trigger",
	}
	ApexPage = Kind{
		Name:      "vf",
		Label:     "Visualforce Page",
		Entity:    "ApexPage",
		Container: "VfContainer",
		Member:    "ApexPageMember",
		Extension: ".page",
		Labelled:  true,
	}
	ApexComponent = Kind{
		Name:      "vfcomponent",
		Label:     "Visualforce Component",
		Entity:    "ApexComponent",
		Container: "VfComponent",
		Member:    "ApexComponentMember",
		Extension: ".component",
		Labelled:  true,
	}
)

var kinds = map[string]Kind{
	ApexClass.Name:     ApexClass,
	ApexTrigger.Name:   ApexTrigger,
	ApexPage.Name:      ApexPage,
	ApexComponent.Name: ApexComponent,
}

// KindByName looks up a registered kind by its subcommand name.
func KindByName(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Kinds returns every registered kind ordered by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
