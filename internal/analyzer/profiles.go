package analyzer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RoleDataScientist   = "Data Scientist"
	RoleMLEngineer      = "Machine Learning Engineer"
	RoleDataAnalyst     = "Data Analyst"
	RoleSoftwareEngineer = "Software Engineer"
)

// BuiltinProfiles returns the profiles of the four selectable job roles.
// Data Scientist keeps the original required-skill list.
func BuiltinProfiles() []Profile {
	return []Profile{
		NewProfile(RoleDataScientist,
			"python", "machine learning", "data analysis", "sql",
			"aws", "docker", "kubernetes", "tensorflow",
			"pytorch", "pandas", "numpy", "scikit-learn",
		),
		NewProfile(RoleMLEngineer,
			"python", "machine learning", "deep learning", "tensorflow",
			"pytorch", "docker", "kubernetes", "aws",
			"mlops", "sql", "spark", "scikit-learn",
		),
		NewProfile(RoleDataAnalyst,
			"sql", "excel", "tableau", "power bi",
			"python", "data analysis", "statistics", "pandas",
			"data visualization", "r",
		),
		NewProfile(RoleSoftwareEngineer,
			"java", "python", "go", "javascript",
			"sql", "git", "docker", "kubernetes",
			"aws", "rest", "microservices", "ci/cd",
		),
	}
}

// Registry resolves job roles to scoring profiles.
type Registry struct {
	profiles    map[string]Profile
	order       []string
	defaultRole string
}

type profilesFile struct {
	DefaultRole string    `yaml:"default_role"`
	Profiles    []Profile `yaml:"profiles"`
}

// NewRegistry validates the profiles and indexes them by lowercased name.
// An empty defaultRole selects the first profile.
func NewRegistry(defaultRole string, profiles ...Profile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles configured")
	}
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		p = p.withDefaults()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := roleKey(p.Name)
		if _, dup := r.profiles[key]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		r.profiles[key] = p
		r.order = append(r.order, p.Name)
	}
	if defaultRole == "" {
		defaultRole = r.order[0]
	}
	if _, ok := r.profiles[roleKey(defaultRole)]; !ok {
		return nil, fmt.Errorf("default role %q: %w", defaultRole, ErrUnknownRole)
	}
	r.defaultRole = defaultRole
	return r, nil
}

// DefaultRegistry holds the built-in profiles with Data Scientist as default.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(RoleDataScientist, BuiltinProfiles()...)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadRegistry reads profiles from a YAML file. Profiles from the file replace
// built-in ones with the same name; the rest of the built-ins are kept.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry is LoadRegistry over an in-memory document.
func ParseRegistry(data []byte) (*Registry, error) {
	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	merged := BuiltinProfiles()
	for _, p := range file.Profiles {
		replaced := false
		for i := range merged {
			if roleKey(merged[i].Name) == roleKey(p.Name) {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}

	defaultRole := file.DefaultRole
	if defaultRole == "" {
		defaultRole = RoleDataScientist
	}
	return NewRegistry(defaultRole, merged...)
}

// Get returns the profile for role; an empty role yields the default.
func (r *Registry) Get(role string) (Profile, error) {
	if strings.TrimSpace(role) == "" {
		role = r.defaultRole
	}
	p, ok := r.profiles[roleKey(role)]
	if !ok {
		return Profile{}, fmt.Errorf("%q: %w", role, ErrUnknownRole)
	}
	return p, nil
}

// Roles lists profile names in registration order.
func (r *Registry) Roles() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) DefaultRole() string { return r.defaultRole }

func roleKey(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// WithDefault returns a copy of r whose default role is role.
func (r *Registry) WithDefault(role string) (*Registry, error) {
	p, ok := r.profiles[roleKey(role)]
	if !ok {
		return nil, fmt.Errorf("default role %q: %w", role, ErrUnknownRole)
	}
	return &Registry{profiles: r.profiles, order: r.order, defaultRole: p.Name}, nil
}
