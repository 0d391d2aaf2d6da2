package normalize

import (
	"regexp"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
)

// Grammar for standard registry references, per the npm package-spec
// documentation: [@scope/]name[@version|@tag|@range].
const npmPackagePattern = `(@[^/]+/)?` + // optional @scope/
	`([^@]+)` + // package name
	`(?:@(.+))?` + // optional @version, @tag or @range
	`$`

const githubShorthandPattern = `([^/@]+)/([^/#]+)` // user/repo

var (
	standardNPMPattern = regexp.MustCompile(`^` + npmPackagePattern)

	// Aliases take the form alias@npm:[@scope/]name[@version].
	npmAliasPattern = regexp.MustCompile(`^([^@]+)@npm:` + npmPackagePattern)

	// Git references keep their repository part and drop the #ref suffix.
	gitURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^git\+https?://[^#]+(?:#(.+))?$`),
		regexp.MustCompile(`^git\+ssh://[^#]+(?:#(.+))?$`),
		regexp.MustCompile(`^git://[^#]+(?:#(.+))?$`),
		regexp.MustCompile(`^https://github\.com/[^/]+/[^/#]+(?:\.git)?(?:#(.+))?$`),
		regexp.MustCompile(`^git@github\.com:[^/]+/[^/#]+(?:\.git)?(?:#(.+))?$`),
		regexp.MustCompile(`^github:` + githubShorthandPattern + `(?:#(.+))?$`),
		regexp.MustCompile(`^` + githubShorthandPattern + `(?:#(.+))?$`),
	}
)

// NPMKey returns the version-independent identity of a registry
// package reference.
//
// Local directories and tarballs are their own identity. Aliases keep
// the alias name and strip the target's version. Git URLs and GitHub
// shorthands drop the #ref suffix. Everything else falls through to
// standard [@scope/]name version stripping, and references matching no
// grammar are returned unchanged.
func NPMKey(pkg string) string {
	if strings.HasPrefix(pkg, domain.LocalPrefix) {
		return pkg
	}
	if strings.HasSuffix(pkg, domain.ArchiveSuffix) {
		return pkg
	}

	if m := npmAliasPattern.FindStringSubmatch(pkg); m != nil {
		alias, scope, name := m[1], m[2], m[3]
		return alias + "@npm:" + stripNPMVersion(scope+name)
	}

	for _, re := range gitURLPatterns {
		if re.MatchString(pkg) {
			repo, _, _ := strings.Cut(pkg, "#")
			return repo
		}
	}

	return stripNPMVersion(pkg)
}

func stripNPMVersion(pkg string) string {
	m := standardNPMPattern.FindStringSubmatch(pkg)
	if m == nil {
		return pkg
	}
	return m[1] + m[2]
}
