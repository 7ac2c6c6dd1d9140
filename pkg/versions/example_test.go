package versions_test

import (
	"fmt"

	"github.com/matzehuels/upgrader/pkg/versions"
)

func ExampleBuild() {
	meta := &versions.Metadata{
		Name:     "example",
		Versions: []string{"1.0.0", "1.2.0", "1.3.1", "2.0.0", "2.1.0", "3.0.0-rc.1"},
		Times:    map[string]string{"2.1.0": "2024-05-01T12:00:00.000Z"},
	}

	report, err := versions.Build(meta, "^1.0.0")
	if err != nil {
		panic(err)
	}

	fmt.Println("current:", report.Current)
	fmt.Println("latest:", report.Latest)
	fmt.Println("minor:", report.LatestMinor)
	fmt.Println("major:", report.LatestMajor)
	for _, r := range report.Stable[:2] {
		fmt.Println(r.Version, r.Date)
	}
	// Output:
	// current: 1.0.0
	// latest: 2.1.0
	// minor: 1.3.1
	// major: 2.1.0
	// 2.1.0 2024-05-01
	// 2.0.0 Unknown
}

func ExampleCoerce() {
	for _, c := range []string{"^1.2", "~3", ">=2.0.1 <3", "latest"} {
		v, ok := versions.Coerce(c)
		if !ok {
			fmt.Printf("%-10s -> none\n", c)
			continue
		}
		fmt.Printf("%-10s -> %s\n", c, v)
	}
	// Output:
	// ^1.2       -> 1.2.0
	// ~3         -> 3.0.0
	// >=2.0.1 <3 -> 2.0.1
	// latest     -> none
}
