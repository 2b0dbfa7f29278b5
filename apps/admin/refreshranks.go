package main

func (cli *commandLine) refreshRanks() error {
	n, err := cli.rankSvc.RefreshOverallRanks()
	if err != nil {
		return err
	}
	logger.Printf("refreshed overall rank of %d user(s)\n", n)
	return nil
}
