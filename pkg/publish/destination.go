package publish

// Secret environment variable names injected into the build tool.
const (
	SecretPortalKey         = "GRADLE_PUBLISH_KEY"
	SecretPortalSecret      = "GRADLE_PUBLISH_SECRET"
	SecretSigningKey        = "ORG_GRADLE_PROJECT_signingKey"
	SecretCentralUser       = "ORG_GRADLE_PROJECT_sonatypeUsername"
	SecretCentralPass       = "ORG_GRADLE_PROJECT_sonatypePassword"
	SecretSigningPassphrase = "ORG_GRADLE_PROJECT_signingPassword"
)

// Destination is one target artifacts can be published to.
type Destination struct {
	Name            string
	Tasks           []string // gradle tasks, run in one invocation
	RequiredSecrets []string // env var names that must be resolvable
}

// The three supported destinations. Publishing order for full releases
// is portal then central; local never needs secrets.
var (
	Local = Destination{
		Name:  "local",
		Tasks: []string{"publishToMavenLocal"},
	}
	Portal = Destination{
		Name:            "portal",
		Tasks:           []string{"publishPlugins"},
		RequiredSecrets: []string{SecretPortalKey, SecretPortalSecret, SecretSigningKey},
	}
	Central = Destination{
		Name:            "central",
		Tasks:           []string{"publishToSonatype", "closeAndReleaseSonatypeStagingRepository"},
		RequiredSecrets: []string{SecretCentralUser, SecretCentralPass, SecretSigningPassphrase},
	}
)

// All lists every destination in publish order.
func All() []Destination {
	return []Destination{Local, Portal, Central}
}

// Remote lists the destinations a full release publishes to, in order.
func Remote() []Destination {
	return []Destination{Portal, Central}
}

// ByName looks a destination up by its name.
func ByName(name string) (Destination, bool) {
	for _, d := range All() {
		if d.Name == name {
			return d, true
		}
	}
	return Destination{}, false
}
