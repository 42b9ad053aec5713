package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chat-relay/internal/client"
	"chat-relay/internal/config"
	"chat-relay/internal/domain"
	"chat-relay/internal/gateway"
	"chat-relay/internal/identity"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	idClient := identity.NewClient(cfg.IdentityBaseURL)
	auth, err := authFlow(ctx, reader, idClient)
	if err != nil {
		log.Fatalf("autenticación: %v", err)
	}
	fmt.Printf("Bienvenido, %s.\n", auth.User.Username)

	transport, err := client.DialWS(ctx, cfg.RelayWSURL, logger)
	if err != nil {
		log.Fatalf("conectar al relay: %v", err)
	}
	defer transport.Close()

	store := gateway.NewHTTPClient(cfg.GatewayBaseURL)
	engine := client.NewEngine(logger, store, transport)
	if err := engine.OnConnect(ctx, auth.User.Username); err != nil {
		logger.Warn("initial history fetch failed", zap.Error(err))
	}
	printHistory(engine.History())

	deliveries := make(chan domain.Message, 64)
	go func() {
		defer close(deliveries)
		if err := transport.Listen(func(msg domain.Message) {
			deliveries <- msg
		}); err != nil {
			logger.Warn("relay connection closed", zap.Error(err))
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()

	fmt.Println("Comandos: /nueva (sesión nueva), /historial, /salir")

	// Un solo bucle de eventos: entregas del relay y líneas de teclado se
	// intercalan aquí, igual que en el cliente de navegador original.
	for {
		select {
		case msg, ok := <-deliveries:
			if !ok {
				fmt.Println("Conexión con el relay perdida.")
				return
			}
			if engine.OnRelayDelivery(msg) {
				fmt.Printf("[%s] %s\n", msg.Sender, msg.Content)
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.TrimSpace(line) {
			case "/salir":
				return
			case "/historial":
				printHistory(engine.History())
			case "/nueva":
				if err := engine.StartNewSession(ctx); err != nil {
					fmt.Println("No se pudo refrescar el historial.")
				}
				printHistory(engine.History())
			default:
				if msg, ok := engine.OnLocalSubmit(line); ok {
					fmt.Printf("[%s] %s\n", msg.Sender, msg.Content)
				}
			}
		}
	}
}

func authFlow(ctx context.Context, reader *bufio.Reader, idClient *identity.Client) (identity.AuthResult, error) {
	for {
		fmt.Println("[1] Entrar")
		fmt.Println("[2] Registrarse")
		fmt.Print("Selección: ")
		choice, _ := reader.ReadString('\n')

		switch strings.TrimSpace(choice) {
		case "1":
			identifier := prompt(reader, "Usuario o email: ")
			password := prompt(reader, "Contraseña: ")
			result, err := idClient.Login(ctx, identifier, password)
			if err != nil {
				fmt.Printf("No se pudo entrar: %v\n", err)
				continue
			}
			return result, nil
		case "2":
			username := prompt(reader, "Usuario: ")
			email := prompt(reader, "Email: ")
			password := prompt(reader, "Contraseña: ")
			result, err := idClient.Register(ctx, username, email, password)
			if err != nil {
				fmt.Printf("No se pudo registrar: %v\n", err)
				continue
			}
			return result, nil
		default:
			fmt.Println("Selección inválida.")
		}
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func printHistory(history []domain.Message) {
	if len(history) == 0 {
		fmt.Println("--- Sin historial ---")
		return
	}
	fmt.Println("--- Historial ---")
	for _, msg := range history {
		fmt.Printf("[%s] %s\n", msg.Sender, msg.Content)
	}
	fmt.Println("-----------------")
}
