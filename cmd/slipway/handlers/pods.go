package handlers

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/go-logr/logr"

	"github.com/imamik/slipway/internal/config"
	"github.com/imamik/slipway/internal/kube"
)

// Pods lists the pods in the app's namespace.
func Pods(ctx context.Context, configPath string, ov config.Overrides) error {
	settings, err := resolveSettings(configPath, ov)
	if err != nil {
		return err
	}
	if err := requireKubeconfig(settings); err != nil {
		return err
	}

	ctl, err := newKubeControl(settings, logr.FromContextOrDiscard(ctx))
	if err != nil {
		return err
	}

	pods, err := ctl.ListPods(ctx, settings.Namespace)
	if err != nil {
		return err
	}

	if len(pods) == 0 {
		fmt.Printf("No pods found in namespace %s.\n", settings.Namespace)
		return nil
	}

	printPodTable(pods)
	return nil
}

// printPodTable prints pods in kubectl-style columns.
func printPodTable(pods []kube.PodInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREADY\tSTATUS\tRESTARTS\tAGE")
	for _, p := range pods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.Name, p.Ready, p.Status, p.Restarts, p.Age)
	}
	w.Flush()
}
